// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pointscene/color"
)

func TestPointCloudMaterial(t *testing.T) {
	m := NewPointCloudMaterial("cloud")
	assert.Equal(t, "cloud", m.InstanceName())
	assert.Equal(t, PointCloudName, m.MaterialName())
	assert.Equal(t, Opaque, m.Aspect())
	assert.False(t, m.IsTransparent())
	assert.Equal(t, color.Color{0.7, 0.7, 0.7, 1}, m.Kd)
	assert.Equal(t, color.Color{0.3, 0.3, 0.3, 1}, m.Ks)
	assert.Equal(t, float32(64), m.Ns)
	assert.Equal(t, float32(1), m.Alpha)
	assert.False(t, m.ColoredByVertexAttrib())
	assert.False(t, m.RenderAsSplat)
	assert.True(t, m.Dirty(), "new materials are dirty")

	m.Update()
	assert.False(t, m.Dirty())
	p := m.Parameters()
	assert.Equal(t, []string{
		"material.alpha",
		"material.kd",
		"material.ks",
		"material.ns",
		"material.perVertexColor",
		"material.renderAsSplat",
	}, p.Names())
	ns, ok := p.Scalar("material.ns")
	assert.True(t, ok)
	assert.Equal(t, float32(64), ns)

	// Unchanged state does not dirty the material.
	m.SetColoredByVertexAttrib(false)
	assert.False(t, m.Dirty())
	m.SetColoredByVertexAttrib(true)
	assert.True(t, m.Dirty())
	assert.True(t, m.ColoredByVertexAttrib())

	// Update is a no-op while clean.
	m.Update()
	m.Ns = 2
	m.Update()
	ns, _ = p.Scalar("material.ns")
	assert.Equal(t, float32(64), ns)
	m.NeedUpdate()
	m.Update()
	ns, _ = p.Scalar("material.ns")
	assert.Equal(t, float32(2), ns)
	pv, _ := p.Bool("material.perVertexColor")
	assert.True(t, pv)

	p.SetColor("material.kd", color.Blue)
	p.SetScalar("material.alpha", 0.5)
	p.SetBool("material.perVertexColor", false)
	require.NoError(t, m.UpdateFromParameters())
	assert.Equal(t, color.Blue, m.Kd)
	assert.Equal(t, float32(0.5), m.Alpha)
	assert.False(t, m.ColoredByVertexAttrib())
	assert.True(t, m.IsTransparent())

	p.SetBool("material.ns", true)
	assert.Error(t, m.UpdateFromParameters())
}

func TestPlainMaterial(t *testing.T) {
	m := NewPlainMaterial("line")
	assert.Equal(t, PlainName, m.MaterialName())
	assert.Equal(t, color.White, m.Color)
	m.Update()
	c, ok := m.Parameters().Color("material.color")
	assert.True(t, ok)
	assert.Equal(t, color.White, c)
	m.Color = m.Color.Alpha(0.5)
	assert.True(t, m.IsTransparent())
	m.SetColoredByVertexAttrib(true)
	assert.True(t, m.Dirty())
	m.Update()
	pv, _ := m.Parameters().Bool("material.perVertexColor")
	assert.True(t, pv)
}

func TestParameters(t *testing.T) {
	var p Parameters
	assert.Equal(t, 0, p.Len())
	_, ok := p.Scalar("x")
	assert.False(t, ok)
	p.SetInt("n", 3)
	p.SetScalar("x", 1.5)
	assert.True(t, p.Has("n"))
	_, ok = p.Scalar("n")
	assert.False(t, ok, "wrong type")
	n, ok := p.Int("n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	p.Remove("n")
	assert.False(t, p.Has("n"))
	assert.Equal(t, []string{"x"}, p.Names())
}

func TestMetadata(t *testing.T) {
	md, err := LoadMetadata(PointCloudName)
	require.NoError(t, err)
	assert.Len(t, md, 6)
	kd, ok := md["material.kd"]
	require.True(t, ok)
	assert.Equal(t, "color", kd.Type)
	assert.True(t, kd.Editable)
	alpha := md["material.alpha"]
	require.NotNil(t, alpha.Minimum)
	require.NotNil(t, alpha.Maximum)
	assert.Equal(t, 0.0, *alpha.Minimum)
	assert.Equal(t, 1.0, *alpha.Maximum)

	m := NewPointCloudMaterial("cloud")
	m.Update()
	assert.NoError(t, md.Validate(m.Parameters()))
	m.Parameters().SetScalar("material.alpha", 2)
	assert.Error(t, md.Validate(m.Parameters()))
	m.Parameters().SetInt("material.alpha", 1)
	assert.Error(t, md.Validate(m.Parameters()))
	m.Parameters().SetScalar("material.alpha", 1)
	m.Parameters().SetScalar("unknown", 100)
	assert.NoError(t, md.Validate(m.Parameters()))

	md, err = LoadMetadata(PlainName)
	require.NoError(t, err)
	assert.Len(t, md, 2)

	_, err = LoadMetadata("Nothing")
	assert.True(t, errors.Is(err, ErrNotFound), "have %v", err)
}
