// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"slices"

	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/geometry"
	"github.com/gviegas/pointscene/linear"
	"github.com/gviegas/pointscene/render"
)

// cloudDrawable adapts a point cloud to render.Drawable.
type cloudDrawable struct{ pc *geometry.PointCloud }

func (d cloudDrawable) Topology() render.Topology { return render.Points }
func (d cloudDrawable) VertexCount() int          { return d.pc.Len() }
func (d cloudDrawable) Bounds() linear.AABB       { return d.pc.Bounds() }

// PointCloudComponent renders a point cloud with a
// PointCloudMaterial.
type PointCloudComponent struct {
	entity.BaseComponent
	sys         *GeometrySystem
	cloud       *geometry.PointCloud
	material    *render.PointCloudMaterial
	object      *render.Object
	id          render.ObjectID
	transparent bool
}

// Initialize creates the material and the render object
// of c. The material is colored by vertex if the cloud
// has colors.
func (c *PointCloudComponent) Initialize() error {
	c.material = render.NewPointCloudMaterial(c.Name() + "_mat")
	c.material.SetColoredByVertexAttrib(c.cloud.HasColors())
	o, err := c.sys.eng.lib.NewObject(c.Name(), c, render.Geometry, cloudDrawable{c.cloud}, c.material)
	if err != nil {
		return err
	}
	c.object = o
	c.id = c.sys.eng.objects.Add(o)
	c.transparent = c.material.IsTransparent()
	return nil
}

// Destroy removes the render object of c.
func (c *PointCloudComponent) Destroy() {
	c.sys.eng.objects.RemoveOwnedBy(c)
	c.object = nil
}

// Cloud returns the point cloud rendered by c.
func (c *PointCloudComponent) Cloud() *geometry.PointCloud { return c.cloud }

// Material returns the material of c.
func (c *PointCloudComponent) Material() *render.PointCloudMaterial { return c.material }

// Object returns the render object of c.
func (c *PointCloudComponent) Object() *render.Object { return c.object }

// ObjectID returns the identifier of the render object
// of c.
func (c *PointCloudComponent) ObjectID() render.ObjectID { return c.id }

// update runs once per frame.
func (c *PointCloudComponent) update() error {
	if c.object == nil {
		return nil
	}
	c.cloud.KdTree()
	c.material.SetColoredByVertexAttrib(c.cloud.HasColors())
	if t := c.material.IsTransparent(); t != c.transparent {
		tech, err := c.sys.eng.lib.Technique(c.material)
		if err != nil {
			return err
		}
		c.object.Technique = tech
		c.transparent = t
	}
	return nil
}

// DebugComponent owns debug render objects, such as
// bounding boxes.
type DebugComponent struct {
	entity.BaseComponent
	sys *GeometrySystem
	ids []render.ObjectID
}

// AddPrimitive adds a debug render object drawing mesh.
func (c *DebugComponent) AddPrimitive(name string, mesh *render.LineMesh) (render.ObjectID, error) {
	o, err := c.sys.eng.lib.NewPrimitive(name, c, mesh)
	if err != nil {
		return 0, err
	}
	id := c.sys.eng.objects.Add(o)
	c.ids = append(c.ids, id)
	return id, nil
}

// Objects returns the identifiers of the render objects
// of c.
func (c *DebugComponent) Objects() []render.ObjectID { return slices.Clone(c.ids) }

// Destroy removes the render objects of c.
func (c *DebugComponent) Destroy() {
	c.sys.eng.objects.RemoveOwnedBy(c)
	c.ids = nil
}
