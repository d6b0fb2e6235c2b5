// Package parallel splits index ranges into chunks processed by worker goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of goroutines in flight.
	MinChunkSize int  // Minimum items per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64 << 10,
	}
}

// chunkSize returns the span handed to each goroutine, or n when the work
// should run on the calling goroutine.
func (c Config) chunkSize(n int) int {
	if !c.Enabled || c.NumWorkers < 2 || n < 2*c.MinChunkSize {
		return n
	}
	return max((n+c.NumWorkers-1)/c.NumWorkers, c.MinChunkSize)
}

// Chunks calls f for consecutive [start, end) spans covering [0, n).
// Spans run concurrently when cfg allows it. The first error cancels ctx
// for the remaining spans and is returned.
func Chunks(ctx context.Context, n int, cfg Config, f func(ctx context.Context, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	size := cfg.chunkSize(n)
	if size >= n {
		return f(ctx, 0, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f(ctx, start, end)
		})
	}
	return g.Wait()
}
