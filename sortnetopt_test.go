package sortnetopt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sortnetopt "github.com/jix/sortnetopt-gnp"
)

func TestSearchRun(t *testing.T) {
	s := sortnetopt.New(sortnetopt.WithWorkers(2))
	res, err := s.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Channels)
	assert.Equal(t, 3, res.Bound)
	assert.Equal(t, 4, res.EmptyAt)
	assert.Len(t, res.Layers, 4)
}

func TestSearchRunInvalidChannels(t *testing.T) {
	s := sortnetopt.New()
	for _, channels := range []int{0, -3, 16} {
		_, err := s.Run(context.Background(), channels)
		assert.ErrorIs(t, err, sortnetopt.ErrInvalidChannels, "channels=%d", channels)
	}
}

func TestSearchRunPoolTooLarge(t *testing.T) {
	s := sortnetopt.New(sortnetopt.WithMaxPoolSize(1))
	_, err := s.Run(context.Background(), 4)

	assert.ErrorIs(t, err, sortnetopt.ErrResourceExhausted)
	var ptl *sortnetopt.ErrPoolTooLarge
	require.ErrorAs(t, err, &ptl)
	assert.Equal(t, 1, ptl.Layer)
	assert.Equal(t, 1, ptl.Limit)
	assert.Greater(t, ptl.Size, ptl.Limit)
}

func TestSearchRunLayerCallback(t *testing.T) {
	var layers []int
	s := sortnetopt.New(
		sortnetopt.WithLayerCallback(func(lr sortnetopt.LayerResult) {
			layers = append(layers, lr.Layer)
		}),
	)
	res, err := s.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, layers)
	assert.Equal(t, 1, res.Bound)
}

func TestSearchRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := sortnetopt.New()
	_, err := s.Run(ctx, 5)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearchReusable(t *testing.T) {
	s := sortnetopt.New()
	for _, channels := range []int{2, 3} {
		res, err := s.Run(context.Background(), channels)
		require.NoError(t, err)
		assert.Equal(t, channels, res.Channels)
	}
}
