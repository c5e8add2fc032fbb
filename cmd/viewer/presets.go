package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scene-viewer/config"
	"scene-viewer/scene"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the configuration presets and camera paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Presets:")
			for _, name := range config.PresetNames() {
				cfg, err := config.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %-10s %s (%dx%d, fov %g, eye %v, target %v)\n",
					name, cfg.Scene, cfg.Width, cfg.Height, cfg.FovY, cfg.Eye, cfg.Target)
			}
			fmt.Fprintf(out, "\nCamera paths: %s\n", strings.Join(scene.PathPresetNames(), ", "))
			return nil
		},
	}
}
