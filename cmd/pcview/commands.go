// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/spf13/cobra"

	"github.com/gviegas/pointscene/engine"
	"github.com/gviegas/pointscene/linear"
	"github.com/gviegas/pointscene/render"
)

func newInfoCmd(o *options) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print statistics about the cloud and its k-d tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, comp, err := o.scene(cmd.Context())
			if err != nil {
				return err
			}
			pc := comp.Cloud()
			if k > 0 {
				if err := pc.EstimateNormals(cmd.Context(), k, o.config.Workers, nil); err != nil {
					return err
				}
			}
			tree := pc.KdTree()
			b := pc.Bounds()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "points:  %d\n", pc.Len())
			fmt.Fprintf(w, "bounds:  %v %v\n", b.Min, b.Max)
			fmt.Fprintf(w, "normals: %t\n", pc.HasNormals())
			fmt.Fprintf(w, "colors:  %t\n", pc.HasColors())
			fmt.Fprintf(w, "nodes:   %d\n", len(tree.Nodes()))
			fmt.Fprintf(w, "leaves:  %d\n", tree.LeafCount())
			fmt.Fprintf(w, "depth:   %d\n", tree.Depth())
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "estimate-normals", "k", 0, "estimate normals from this many neighbors")
	return cmd
}

func newBoxesCmd(o *options) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "boxes",
		Short: "List the k-d tree boxes down to a depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("depth") {
				o.config.BoxDepth = depth
			}
			eng, _, err := o.scene(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := eng.ToggleBoundingBoxes(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, ent := range eng.BoundingBoxEntities() {
				for _, c := range ent.Components() {
					dc, ok := c.(*engine.DebugComponent)
					if !ok {
						continue
					}
					for _, id := range dc.Objects() {
						obj, ok := eng.Objects().Get(id)
						if !ok {
							continue
						}
						mesh := obj.Drawable.(*render.LineMesh)
						b := mesh.Bounds()
						fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", ent.Name(), b.Min, b.Max, mesh.Colors[0].Hex())
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "number of tree levels (default from config)")
	return cmd
}

func parseFloats(args []string) ([]float32, error) {
	v := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func newNearestCmd(o *options) *cobra.Command {
	var (
		k      int
		radius float32
	)
	cmd := &cobra.Command{
		Use:   "nearest x y z",
		Short: "Find the points nearest to a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			q := linear.V3{v[0], v[1], v[2]}
			_, comp, err := o.scene(cmd.Context())
			if err != nil {
				return err
			}
			tree := comp.Cloud().KdTree()
			verts := comp.Cloud().Vertices()
			w := cmd.OutOrStdout()
			if radius > 0 {
				for _, n := range tree.Range(&q, radius) {
					fmt.Fprintf(w, "%d\t%g\t%v\n", n.Index, math32.Sqrt(n.SqDist), verts[n.Index])
				}
				return nil
			}
			for _, n := range tree.KNearest(&q, k) {
				fmt.Fprintf(w, "%d\t%g\t%v\n", n.Index, math32.Sqrt(n.SqDist), verts[n.Index])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "neighbors", "k", 1, "number of neighbors")
	cmd.Flags().Float32VarP(&radius, "radius", "r", 0, "list every point within this distance instead")
	return cmd
}

func newPickCmd(o *options) *cobra.Command {
	var size float32
	cmd := &cobra.Command{
		Use:   "pick x y",
		Short: "Pick the point under a pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			eng, _, err := o.scene(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			res, ok := eng.Pick(v[0], v[1], size, size)
			if !ok {
				fmt.Fprintln(w, "no point")
				return nil
			}
			fmt.Fprintf(w, "%d\t%v\t%g\n", res.Index, res.Point, res.Distance)
			return nil
		},
	}
	cmd.Flags().Float32VarP(&size, "size", "s", 0, "pick area in pixels (default from config)")
	return cmd
}
