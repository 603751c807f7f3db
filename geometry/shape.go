// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/linear"
)

// Shape is a kind of synthetic point cloud.
type Shape int

// Shapes.
const (
	// Uniform samples inside [-1, 1]³.
	Cube Shape = iota
	// Uniform samples on the unit sphere.
	Sphere
	// Uniform samples on [-1, 1]² at z = 0.
	Plane
)

var shapeNames = [...]string{
	Cube:   "cube",
	Sphere: "sphere",
	Plane:  "plane",
}

func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape returns the shape named name.
func ParseShape(name string) (Shape, error) {
	for i, s := range shapeNames {
		if s == name {
			return Shape(i), nil
		}
	}
	return 0, newGeomErr(fmt.Sprintf("unknown shape %q", name))
}

// Generate creates a point cloud of n points sampled from
// shape, using seed for the random source.
// Sphere and plane clouds have normals. All clouds are
// colored by height.
func Generate(shape Shape, n int, seed uint64) (*PointCloud, error) {
	if n < 0 {
		return nil, newGeomErr("negative point count")
	}
	r := rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))
	sym := func() float32 { return r.Float32()*2 - 1 }
	verts := make([]linear.V3, n)
	var normals []linear.V3
	switch shape {
	case Cube:
		for i := range verts {
			verts[i] = linear.V3{sym(), sym(), sym()}
		}
	case Sphere:
		normals = make([]linear.V3, n)
		for i := range verts {
			// Uniform in z and longitude.
			z := sym()
			phi := r.Float32() * 2 * math32.Pi
			rad := math32.Sqrt(max(0, 1-z*z))
			s, c := math32.Sincos(phi)
			verts[i] = linear.V3{rad * c, rad * s, z}
			normals[i] = verts[i]
		}
	case Plane:
		normals = make([]linear.V3, n)
		for i := range verts {
			verts[i] = linear.V3{sym(), sym(), 0}
			normals[i] = linear.V3{0, 0, 1}
		}
	default:
		return nil, newGeomErr(fmt.Sprintf("undefined shape %d", int(shape)))
	}
	colors := make([]color.Color, n)
	for i := range verts {
		// Height in [-1, 1] maps to hues from red to blue.
		colors[i] = color.Hue((1 - verts[i][1]) / 3)
	}
	pc := NewPointCloud(verts)
	if normals != nil {
		if err := pc.SetNormals(normals); err != nil {
			return nil, err
		}
	}
	if err := pc.SetColors(colors); err != nil {
		return nil, err
	}
	return pc, nil
}
