package opengl

import "log/slog"

// uniformCache resolves uniform names to locations once per program. A name
// the program does not use is reported a single time and then skipped.
type uniformCache struct {
	lookup    func(name string) int32
	locations map[string]int32
	logger    *slog.Logger
	program   string
}

func newUniformCache(program string, logger *slog.Logger, lookup func(string) int32) *uniformCache {
	return &uniformCache{
		lookup:    lookup,
		locations: make(map[string]int32),
		logger:    logger,
		program:   program,
	}
}

func (c *uniformCache) location(name string) (int32, bool) {
	loc, ok := c.locations[name]
	if !ok {
		loc = c.lookup(name)
		c.locations[name] = loc
		if loc < 0 {
			c.logger.Warn("uniform not found", "program", c.program, "uniform", name)
		}
	}
	return loc, loc >= 0
}

// reset forgets every cached location, for use after a relink.
func (c *uniformCache) reset(lookup func(string) int32) {
	c.lookup = lookup
	clear(c.locations)
}
