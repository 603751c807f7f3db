// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package kdtree

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gviegas/pointscene/linear"
)

// batchChunk is the number of queries a worker handles
// before checking for cancellation.
const batchChunk = 256

// KNearestBatch runs KNearest for every query using up to
// workers goroutines (runtime.NumCPU() if workers < 1).
// The i-th result corresponds to queries[i].
// It stops early and returns ctx.Err() if ctx is canceled.
func (t *Tree) KNearestBatch(ctx context.Context, queries []linear.V3, k, workers int) ([][]Neighbor, error) {
	res := make([][]Neighbor, len(queries))
	err := t.batch(ctx, len(queries), workers, func(i int) {
		res[i] = t.KNearest(&queries[i], k)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// NearestIndexBatch runs NearestIndex for every point of
// the tree's point set, in parallel.
// The i-th result is the nearest neighbor of point i, or
// has Index -1 if there is none.
func (t *Tree) NearestIndexBatch(ctx context.Context, workers int) ([]Neighbor, error) {
	res := make([]Neighbor, len(t.points))
	err := t.batch(ctx, len(t.points), workers, func(i int) {
		n, ok := t.nearest(&t.points[i], i)
		if !ok {
			n.Index = -1
		}
		res[i] = n
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (t *Tree) batch(ctx context.Context, n, workers int, fn func(int)) error {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += batchChunk {
		end := min(start+batchChunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}
