package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scene-viewer/scene"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [scene]",
		Short: "Load a scene without opening a window and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.LoadScene(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bounds := s.Bounds()
			fmt.Fprintf(out, "Scene: %s\n", s.Name)
			fmt.Fprintf(out, "  Vertices:  %d\n", s.VertexCount())
			fmt.Fprintf(out, "  Triangles: %d\n", s.TriangleCount())
			fmt.Fprintf(out, "  Meshes:    %d\n", len(s.Meshes))
			fmt.Fprintf(out, "  Materials: %d\n", len(s.Materials))
			fmt.Fprintf(out, "  Textures:  %d\n", len(s.Textures()))
			fmt.Fprintf(out, "  Bounds:    %v .. %v (size %v)\n", bounds.Min, bounds.Max, bounds.Size())
			for _, m := range s.Meshes {
				fmt.Fprintf(out, "    %-24s %6d triangles, material %d\n", m.Name, m.TriangleCount(), m.MaterialIndex)
			}
			return nil
		},
	}
}
