package sortnetopt

import (
	"errors"
	"fmt"

	"github.com/jix/sortnetopt-gnp/outputset"
	"github.com/jix/sortnetopt-gnp/search"
)

var (
	// ErrInvalidChannels is returned when the channel count is missing,
	// non-positive, or above outputset.MaxChannels. Reported before any
	// computation starts.
	ErrInvalidChannels = errors.New("invalid channel count")

	// ErrResourceExhausted is returned when a layer cannot be
	// materialized within the configured limits.
	ErrResourceExhausted = errors.New("resource limit exceeded")
)

// ErrPoolTooLarge indicates that a layer's candidate pool exceeded the
// configured cap. It unwraps to ErrResourceExhausted.
type ErrPoolTooLarge struct {
	Layer int
	Size  int
	Limit int
	cause error
}

func (e *ErrPoolTooLarge) Error() string {
	return fmt.Sprintf("candidate pool of layer %d exceeds limit: %d > %d", e.Layer, e.Size, e.Limit)
}

func (e *ErrPoolTooLarge) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, search.ErrInvalidChannels) {
		return fmt.Errorf("%w: %w", ErrInvalidChannels, err)
	}
	var ptl *search.ErrPoolTooLarge
	if errors.As(err, &ptl) {
		return &ErrPoolTooLarge{
			Layer: ptl.Layer,
			Size:  ptl.Size,
			Limit: ptl.Limit,
			cause: fmt.Errorf("%w: %w", ErrResourceExhausted, err),
		}
	}
	if errors.Is(err, outputset.ErrInvalidLayer) {
		// Layers are generated internally; reaching this is a bug, not
		// an input problem. Keep the original error visible.
		return err
	}

	return err
}
