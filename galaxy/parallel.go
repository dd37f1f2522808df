package galaxy

import (
	"context"

	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/stargen"
	"golang.org/x/sync/errgroup"
)

// GenerateParallel creates n systems across workers goroutines. Workers
// share alloc, so ids stay unique; each worker has its own random stream
// derived from seed. The result order follows the worker partition, not
// id order.
func GenerateParallel(ctx context.Context, n, workers int, seed uint64, alloc *ident.Allocator, imf stargen.IMF, formula stargen.Formula, shape Shape) ([]SolarSystem, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = max(n, 1)
	}

	out := make([]SolarSystem, n)
	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			continue
		}
		gen := NewSystemGenerator(alloc, stargen.NewSeeded(seed+uint64(w), imf, formula), shape)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				sys, err := gen.Generate()
				if err != nil {
					return err
				}
				out[i] = sys
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
