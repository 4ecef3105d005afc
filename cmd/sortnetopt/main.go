// Command sortnetopt computes lower bounds on the number of parallel
// comparator layers a sorting network needs.
//
//	sortnetopt 7
//	sortnetopt --workers 4 --progress 2s 8
//	sortnetopt --config run.toml --json 9
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}
