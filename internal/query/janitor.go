package query

import (
	"context"
	"time"
)

const defaultSweepInterval = time.Minute

// Run sweeps idle entries at a fixed cadence until ctx is done. It blocks;
// start it in its own goroutine.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("swept idle entries", "count", n, "remaining", c.Len())
			}
		}
	}
}
