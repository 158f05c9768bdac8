package main

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mayajiva/internal/agent"
	"mayajiva/internal/config"
	"mayajiva/internal/landscape"
	"mayajiva/internal/scape"
)

func buildLandscape(cmd *cobra.Command, cfg *config.Config) (*landscape.Landscape, error) {
	preset := cfg.Landscape.Preset
	if cmd.Flags().Changed("preset") {
		preset, _ = cmd.Flags().GetString("preset")
	}
	seed, _ := cmd.Flags().GetInt64("landscape-seed")
	return scape.BuildPreset(preset, cfg.Landscape.Field, cfg.Landscape.Anomalies, seed)
}

func newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Sample a landscape's field on a grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			land, err := buildLandscape(cmd, cfg)
			if err != nil {
				return err
			}
			nx, _ := cmd.Flags().GetInt("nx")
			ny, _ := cmd.Flags().GetInt("ny")
			grid := land.SampleGrid(nx, ny)

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), grid)
			}
			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write([]string{"x", "y", "direction", "intensity", "inclination", "deviation"}); err != nil {
				return err
			}
			for _, s := range grid {
				row := []string{
					formatFloat(s.X),
					formatFloat(s.Y),
					formatFloat(s.Direction),
					formatFloat(s.Intensity),
					formatFloat(s.Inclination),
					formatFloat(s.Deviation),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	cmd.Flags().String("preset", "", "landscape preset")
	cmd.Flags().Int64("landscape-seed", 0, "seed for randomized presets")
	cmd.Flags().Int("nx", 21, "grid columns")
	cmd.Flags().Int("ny", 21, "grid rows")
	return cmd
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// newDriveCmd steps a bug the way a frame-polled host would, printing its
// pose every few frames.
func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Step a bug frame by frame like a rendering host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			land, err := buildLandscape(cmd, cfg)
			if err != nil {
				return err
			}
			fps, _ := cmd.Flags().GetFloat64("fps")
			frames, _ := cmd.Flags().GetInt("frames")
			every, _ := cmd.Flags().GetInt("every")
			stepsPerFrame, _ := cmd.Flags().GetInt("steps-per-frame")
			if fps <= 0 {
				return fmt.Errorf("fps must be > 0, got %g", fps)
			}
			if every < 1 {
				every = 1
			}

			params := cfg.Bug
			if cmd.Flags().Changed("seed") {
				params.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("heading") {
				h, _ := cmd.Flags().GetFloat64("heading")
				params.Heading0 = &h
			}

			driver := agent.NewDriver(params, land, stepsPerFrame)
			if err := driver.Start(); err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)
			out := cmd.OutOrStdout()
			delta := 1 / fps
			steps := 0
			frame := 0
			for frame < frames && driver.Running() {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				steps += driver.Frame(delta)
				frame++
				if frame%every == 0 || !driver.Running() {
					fmt.Fprintf(out, "frame=%d t=%.3f x=%.3f y=%.3f heading=%.4f\n",
						frame, float64(frame)*delta, driver.X(), driver.Y(), driver.Heading())
				}
			}
			driver.Stop()
			if driver.OutOfBounds() {
				logger.Warn("bug left landscape", "frame", frame)
			}
			fmt.Fprintf(out, "drive finished frames=%s steps=%s out_of_bounds=%t\n",
				humanize.Comma(int64(frame)), humanize.Comma(int64(steps)), driver.OutOfBounds())
			return nil
		},
	}
	cmd.Flags().String("preset", "", "landscape preset")
	cmd.Flags().Int64("landscape-seed", 0, "seed for randomized presets")
	cmd.Flags().Int64("seed", 0, "bug seed (0 draws from entropy)")
	cmd.Flags().Float64("heading", 0, "initial heading in radians (random when unset)")
	cmd.Flags().Float64("fps", 60, "host frame rate")
	cmd.Flags().Int("frames", 600, "frames to run")
	cmd.Flags().Int("every", 60, "print the pose every n frames")
	cmd.Flags().Int("steps-per-frame", agent.DefaultStepsPerFrame, "integration sub-steps per frame")
	return cmd
}
