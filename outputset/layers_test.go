package outputset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateLayersCounts(t *testing.T) {
	// Non-empty matchings on n channels: the telephone numbers minus one.
	expected := map[int]int{
		1: 0,
		2: 1,
		3: 3,
		4: 9,
		5: 25,
		6: 75,
		7: 231,
	}
	for channels, want := range expected {
		assert.Len(t, EnumerateLayers(channels), want, "channels=%d", channels)
	}
}

func TestEnumerateLayersValidAndDistinct(t *testing.T) {
	layers := EnumerateLayers(5)
	seen := make(map[string]struct{}, len(layers))
	for _, l := range layers {
		_, err := NewLayer(5, l...)
		require.NoError(t, err, "layer %s", l)
		key := l.String()
		_, dup := seen[key]
		require.False(t, dup, "duplicate layer %s", l)
		seen[key] = struct{}{}
	}
}

func TestEnumerateLayersOutOfRange(t *testing.T) {
	assert.Panics(t, func() { EnumerateLayers(0) })
	assert.Panics(t, func() { EnumerateLayers(MaxChannels + 1) })
}
