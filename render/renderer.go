// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gviegas/pointscene/camera"
	"github.com/gviegas/pointscene/linear"
)

// MaxLight is the default maximum number of lights per
// frame.
const MaxLight = 16

// DrawItem is a single draw of a render object in a
// given pass.
type DrawItem struct {
	ID     ObjectID
	Object *Object
	Config ShaderConfig
	MVP    linear.M4
	World  linear.M4
	// View-space distance from the camera to the center
	// of the object's bounds.
	Depth  float32
	Layout DrawLayout
}

// Frame is the result of Renderer.Collect.
type Frame struct {
	Layout FrameLayout
	Lights []LightLayout
	// Draw lists indexed by Pass.
	Passes [NumPass][]DrawItem
	// Debug objects, drawn after the lighting passes
	// with their opaque or transparent configuration.
	Debug []DrawItem
	// Number of visible objects outside the view volume.
	Culled int
	// Number of visible objects lacking a technique.
	Skipped int
}

// Renderer produces per-frame draw lists.
type Renderer struct {
	lights   []Light
	maxLight int
	logger   *slog.Logger
}

// NewRenderer creates a new renderer.
// maxLight limits the number of lights; MaxLight is used
// if it is less than 1.
func NewRenderer(maxLight int, logger *slog.Logger) *Renderer {
	if maxLight < 1 {
		maxLight = MaxLight
	}
	return &Renderer{maxLight: maxLight, logger: orDefault(logger)}
}

// AddLight adds a light source to r.
// It returns the index of the light.
func (r *Renderer) AddLight(l Light) (int, error) {
	if len(r.lights) >= r.maxLight {
		return -1, newRenderErr(fmt.Sprintf("too many lights (max %d)", r.maxLight))
	}
	r.lights = append(r.lights, l)
	return len(r.lights) - 1, nil
}

// Light returns a pointer to the light at index i.
func (r *Renderer) Light(i int) *Light { return &r.lights[i] }

// LightCount returns the number of lights in r.
func (r *Renderer) LightCount() int { return len(r.lights) }

// ClearLights removes every light from r.
func (r *Renderer) ClearLights() { r.lights = r.lights[:0] }

// Collect gathers the visible objects of objs that
// intersect the view volume of cam into per-pass draw
// lists. Opaque lists are sorted front to back and
// transparent ones back to front.
// Dirty materials are updated.
func (r *Renderer) Collect(cam *camera.Camera, objs *ObjectManager, elapsed time.Duration) *Frame {
	f := new(Frame)
	vp := cam.ViewProj()
	view := cam.View()
	w, h := cam.Viewport()
	eye := cam.Position()
	f.Layout.SetVP(vp)
	f.Layout.SetV(view)
	f.Layout.SetP(cam.Proj())
	f.Layout.SetTime(elapsed)
	f.Layout.SetViewport(w, h)
	f.Layout.SetZRange(cam.ZNear(), cam.ZFar())
	f.Layout.SetEye(&eye)
	f.Layout.SetLightCount(len(r.lights))
	for i := range r.lights {
		f.Lights = append(f.Lights, r.lights[i].Layout())
	}

	for id, o := range objs.All() {
		if !o.Visible || o.Drawable == nil {
			continue
		}
		if o.Technique == nil {
			f.Skipped++
			continue
		}
		world := o.World()
		box := o.Drawable.Bounds()
		box = box.Transform(&world)
		if !box.IsEmpty() && !inFrustum(vp, &box) {
			f.Culled++
			continue
		}
		if o.Material != nil {
			o.Material.Update()
		}
		item := DrawItem{ID: id, Object: o, World: world}
		item.MVP.Mul(vp, &world)
		if !box.IsEmpty() {
			c := box.Center()
			c = view.MulPoint(&c)
			item.Depth = -c[2]
		}
		var normal linear.M4
		normal.Invert(&world)
		normal.Transpose(&normal)
		item.Layout.SetMVP(&item.MVP)
		item.Layout.SetWorld(&world)
		item.Layout.SetNormal(&normal)
		item.Layout.SetID(id)
		r.bucket(f, &item)
	}

	front := func(a, b DrawItem) int {
		return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(a.ID, b.ID))
	}
	back := func(a, b DrawItem) int {
		return cmp.Or(cmp.Compare(b.Depth, a.Depth), cmp.Compare(a.ID, b.ID))
	}
	slices.SortFunc(f.Passes[ZPrepass], front)
	slices.SortFunc(f.Passes[LightingOpaque], front)
	slices.SortFunc(f.Passes[LightingTransparent], back)
	slices.SortFunc(f.Passes[UI], front)
	slices.SortFunc(f.Debug, front)
	r.logger.Debug("render: frame collected",
		"opaque", len(f.Passes[LightingOpaque]),
		"transparent", len(f.Passes[LightingTransparent]),
		"debug", len(f.Debug),
		"culled", f.Culled)
	return f
}

// bucket appends item to the draw lists of f in which its
// object is drawn.
func (r *Renderer) bucket(f *Frame, item *DrawItem) {
	o := item.Object
	t := o.Technique
	add := func(list *[]DrawItem, pass Pass) bool {
		cfg, ok := t.Configuration(pass)
		if !ok {
			return false
		}
		it := *item
		it.Config = cfg
		*list = append(*list, it)
		return true
	}
	lighting := LightingOpaque
	if o.IsTransparent() {
		lighting = LightingTransparent
	}
	switch o.Type {
	case Debug:
		if !add(&f.Debug, lighting) {
			add(&f.Debug, LightingOpaque)
		}
	case UIObject:
		add(&f.Passes[UI], UI)
	default:
		if lighting == LightingTransparent && add(&f.Passes[lighting], lighting) {
			return
		}
		// Techniques built for an opaque material draw
		// opaque even if the material changed since.
		add(&f.Passes[ZPrepass], ZPrepass)
		add(&f.Passes[LightingOpaque], LightingOpaque)
	}
}

// inFrustum reports whether box may intersect the view
// volume described by the view-projection matrix vp.
// It is conservative: a box is rejected only when all of
// its corners lie outside the same clip plane.
func inFrustum(vp *linear.M4, box *linear.AABB) bool {
	var out [6]int
	for _, c := range box.Corners() {
		v := linear.V4{c[0], c[1], c[2], 1}
		v.Mul(vp, &v)
		for i := range 3 {
			if v[i] < -v[3] {
				out[2*i]++
			}
			if v[i] > v[3] {
				out[2*i+1]++
			}
		}
	}
	for _, n := range out {
		if n == 8 {
			return false
		}
	}
	return true
}
