package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	sortnetopt "github.com/jix/sortnetopt-gnp"
	"github.com/jix/sortnetopt-gnp/config"
)

// largeRunWarning is the channel count above which a run stops being an
// interactive affair. Nine channels already took a cluster in the
// computation this tool reproduces.
const largeRunWarning = 9

func newRootCommand() *cobra.Command {
	var (
		configPath string
		workers    int
		maxPool    int
		progress   time.Duration
		verbose    bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:          "sortnetopt [flags] <channels>",
		Short:        "Compute sorting-network depth lower bounds",
		Long: `sortnetopt explores symmetry-reduced partial sorting networks layer by
layer and reports, for each prefix length, how many non-subsumed states
survive. The layer at which the sorted state first survives is a lower
bound on the depth of any sorting network for that channel count.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid channel count %q: %w", args[0], err)
			}

			cfg := config.Default()
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			// Flags override the file.
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("max-pool-size") {
				cfg.MaxPoolSize = maxPool
			}
			if cmd.Flags().Changed("progress") {
				cfg.ProgressInterval = config.Duration{Duration: progress}
			}

			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			formatter := charmlog.TextFormatter
			if jsonOut {
				formatter = charmlog.JSONFormatter
			}
			handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
				Formatter:       formatter,
			})
			logger := sortnetopt.NewLogger(handler)

			if channels > largeRunWarning {
				logger.Warn("channel counts beyond 9 need massive compute", "channels", channels)
			}

			s := sortnetopt.New(
				sortnetopt.WithWorkers(cfg.Workers),
				sortnetopt.WithMaxPoolSize(cfg.MaxPoolSize),
				sortnetopt.WithProgressInterval(cfg.ProgressInterval.Duration),
				sortnetopt.WithLogger(logger),
			)
			res, err := s.Run(cmd.Context(), channels)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, res)
			}
			writeTable(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker count (0 = all CPUs)")
	cmd.Flags().IntVar(&maxPool, "max-pool-size", 0, "abort when a layer's candidate pool exceeds this (0 = unlimited)")
	cmd.Flags().DurationVar(&progress, "progress", 5*time.Second, "interval between progress lines (0 = none)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the result and logs as JSON")

	return cmd
}

func writeTable(cmd *cobra.Command, res *sortnetopt.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "channels: %d\n", res.Channels)
	fmt.Fprintf(out, "%6s %12s %12s %8s\n", "layer", "pool", "survivors", "sorted")
	for _, lr := range res.Layers {
		fmt.Fprintf(out, "%6d %12d %12d %8v\n", lr.Layer, lr.PoolSize, lr.Survivors, lr.Sorted)
	}
	fmt.Fprintf(out, "lower bound: %d layers\n", res.Bound)
}

func writeJSON(cmd *cobra.Command, res *sortnetopt.Result) error {
	type layerOut struct {
		Layer     int    `json:"layer"`
		PoolSize  int    `json:"pool_size"`
		Survivors int    `json:"survivors"`
		Sorted    bool   `json:"sorted"`
		Evicted   int    `json:"evicted"`
		Elapsed   string `json:"elapsed"`
	}
	type resultOut struct {
		Channels int        `json:"channels"`
		Bound    int        `json:"bound"`
		EmptyAt  int        `json:"empty_at"`
		Layers   []layerOut `json:"layers"`
	}

	ro := resultOut{
		Channels: res.Channels,
		Bound:    res.Bound,
		EmptyAt:  res.EmptyAt,
	}
	for _, lr := range res.Layers {
		ro.Layers = append(ro.Layers, layerOut{
			Layer:     lr.Layer,
			PoolSize:  lr.PoolSize,
			Survivors: lr.Survivors,
			Sorted:    lr.Sorted,
			Evicted:   lr.Evicted,
			Elapsed:   lr.Elapsed.String(),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(ro)
}
