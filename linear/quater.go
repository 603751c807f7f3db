// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Rotate sets q to contain a rotation of angle radians
// about axis.
// axis must have length 1.
func (q *Q) Rotate(angle float32, axis *V3) {
	s, c := math32.Sincos(angle * 0.5)
	q.V.Scale(s, axis)
	q.R = c
}

// Conj sets q to contain the conjugate of p.
func (q *Q) Conj(p *Q) {
	q.V.Scale(-1, &p.V)
	q.R = p.R
}

// Norm sets q to contain p normalized.
func (q *Q) Norm(p *Q) {
	n := math32.Sqrt(p.V.Dot(&p.V) + p.R*p.R)
	q.V.Scale(1/n, &p.V)
	q.R = p.R / n
}

// RotateV3 returns v rotated by q.
// q is assumed to be a unit quaternion.
func (q *Q) RotateV3(v *V3) V3 {
	var t, u, w V3
	t.Cross(&q.V, v)
	t.Scale(2, &t)
	u.Scale(q.R, &t)
	w.Cross(&q.V, &t)
	u.Add(&u, &w)
	u.Add(&u, v)
	return u
}
