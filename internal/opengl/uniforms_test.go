package opengl

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformCacheWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	calls := map[string]int{}
	cache := newUniformCache("basic", logger, func(name string) int32 {
		calls[name]++
		if name == "MVP" {
			return 3
		}
		return -1
	})

	loc, ok := cache.location("MVP")
	assert.True(t, ok)
	assert.Equal(t, int32(3), loc)

	for i := 0; i < 3; i++ {
		_, ok = cache.location("p_light")
		assert.False(t, ok)
	}
	cache.location("MVP")

	assert.Equal(t, 1, calls["MVP"])
	assert.Equal(t, 1, calls["p_light"])
	assert.Equal(t, 1, strings.Count(buf.String(), "uniform not found"))
	assert.Contains(t, buf.String(), "uniform=p_light")

	cache.reset(func(string) int32 { return 0 })
	loc, ok = cache.location("p_light")
	assert.True(t, ok)
	assert.Equal(t, int32(0), loc)
}
