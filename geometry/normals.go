// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/gviegas/pointscene/linear"
)

// MinNormalNeighbors is the smallest neighborhood from
// which a normal can be estimated.
const MinNormalNeighbors = 3

// EstimateNormals sets the normals of p from the principal
// axes of the k nearest neighbors of each vertex.
// If viewpoint is not nil, normals face it; otherwise they
// face away from the center of the bounds.
// Queries run on up to workers goroutines.
func (p *PointCloud) EstimateNormals(ctx context.Context, k, workers int, viewpoint *linear.V3) error {
	if k < MinNormalNeighbors {
		return newGeomErr("EstimateNormals needs at least 3 neighbors")
	}
	tree := p.KdTree()
	nbrs, err := tree.KNearestBatch(ctx, p.vertices, k, workers)
	if err != nil {
		return err
	}
	var ref linear.V3
	if viewpoint != nil {
		ref = *viewpoint
	} else {
		b := p.Bounds()
		ref = b.Center()
	}
	normals := make([]linear.V3, len(p.vertices))
	var (
		cov  = mat.NewSymDense(3, nil)
		eig  mat.EigenSym
		vecs mat.Dense
	)
	for i := range p.vertices {
		var c [3]float64
		for _, n := range nbrs[i] {
			v := &p.vertices[n.Index]
			for d := range 3 {
				c[d] += float64(v[d])
			}
		}
		inv := 1 / float64(len(nbrs[i]))
		for d := range 3 {
			c[d] *= inv
		}
		var s [3][3]float64
		for _, n := range nbrs[i] {
			v := &p.vertices[n.Index]
			for r := range 3 {
				for q := r; q < 3; q++ {
					s[r][q] += (float64(v[r]) - c[r]) * (float64(v[q]) - c[q])
				}
			}
		}
		for r := range 3 {
			for q := r; q < 3; q++ {
				cov.SetSym(r, q, s[r][q]*inv)
			}
		}
		var nrm linear.V3
		if eig.Factorize(cov, true) {
			// Eigenvalues are in ascending order.
			eig.VectorsTo(&vecs)
			nrm = linear.V3{float32(vecs.At(0, 0)), float32(vecs.At(1, 0)), float32(vecs.At(2, 0))}
			if nrm.Dot(&nrm) > 0 {
				nrm.Norm(&nrm)
			}
		}
		var dir linear.V3
		if viewpoint != nil {
			dir.Sub(&ref, &p.vertices[i])
		} else {
			dir.Sub(&p.vertices[i], &ref)
		}
		if nrm.Dot(&dir) < 0 {
			nrm.Scale(-1, &nrm)
		}
		normals[i] = nrm
	}
	p.normals = normals
	return nil
}
