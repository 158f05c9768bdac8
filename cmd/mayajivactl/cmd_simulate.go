package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mayajiva/internal/config"
	"mayajiva/pkg/mayajiva"
)

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "landscape preset: uniform|dipole|fault|gradient|volcanic")
	cmd.Flags().Int64("seed", 0, "bug seed (0 draws from entropy)")
	cmd.Flags().Int64("landscape-seed", 0, "seed for randomized presets")
	cmd.Flags().Float64("duration", 0, "simulated seconds")
	cmd.Flags().Float64("dt", 0, "integration step in seconds")
	cmd.Flags().Float64("goal", 0, "goal heading in radians")
	cmd.Flags().Float64("heading", 0, "initial heading in radians (random when unset)")
	cmd.Flags().Float64("contrast", 0, "compass contrast")
	cmd.Flags().Float64("sigma-theta", 0, "heading diffusion")
}

// runRequestFrom layers explicitly set simulation flags over the config.
func runRequestFrom(cmd *cobra.Command, cfg *config.Config) mayajiva.RunRequest {
	flags := cmd.Flags()
	params := cfg.Bug
	field := cfg.Landscape.Field
	req := mayajiva.RunRequest{
		Preset:    cfg.Landscape.Preset,
		Field:     &field,
		Anomalies: cfg.Landscape.Anomalies,
		Params:    &params,
		Duration:  cfg.Run.Duration,
		DT:        cfg.Run.DT,
	}

	if flags.Changed("preset") {
		req.Preset, _ = flags.GetString("preset")
	}
	if flags.Changed("seed") {
		// Written to params so an explicit 0 still asks for entropy.
		params.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("landscape-seed") {
		req.LandscapeSeed, _ = flags.GetInt64("landscape-seed")
	}
	if flags.Changed("duration") {
		req.Duration, _ = flags.GetFloat64("duration")
	}
	if flags.Changed("dt") {
		req.DT, _ = flags.GetFloat64("dt")
	}
	if flags.Changed("goal") {
		params.GoalHeading, _ = flags.GetFloat64("goal")
	}
	if flags.Changed("heading") {
		h, _ := flags.GetFloat64("heading")
		params.Heading0 = &h
	}
	if flags.Changed("contrast") {
		params.Compass.Contrast, _ = flags.GetFloat64("contrast")
	}
	if flags.Changed("sigma-theta") {
		params.SigmaTheta, _ = flags.GetFloat64("sigma-theta")
	}
	return req
}

func ensembleRequestFrom(cmd *cobra.Command, cfg *config.Config) mayajiva.EnsembleRequest {
	req := mayajiva.EnsembleRequest{
		RunRequest: runRequestFrom(cmd, cfg),
		Runs:       cfg.Run.Runs,
		Workers:    cfg.Run.Workers,
	}
	if cmd.Flags().Changed("runs") {
		req.Runs, _ = cmd.Flags().GetInt("runs")
	}
	if cmd.Flags().Changed("workers") {
		req.Workers, _ = cmd.Flags().GetInt("workers")
	}
	return req
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a single bug",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			started := time.Now()
			summary, err := client.Run(cmd.Context(), runRequestFrom(cmd, cfg))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(out, summary)
			}
			fmt.Fprintf(out, "run completed run_id=%s preset=%s seed=%d steps=%s in_bounds=%t elapsed=%s\n",
				summary.RunID, summary.Preset, summary.Seed, humanize.Comma(int64(summary.Steps)), summary.InBounds, time.Since(started).Round(time.Millisecond))
			fmt.Fprintf(out, "final x=%.3f y=%.3f heading=%.4f distance=%.3f\n",
				summary.FinalX, summary.FinalY, summary.FinalHeading, summary.DistanceFromStart)
			fmt.Fprintf(out, "mean_heading_error=%.4f home_distance=%.3f fitness=%.6f\n",
				summary.MeanHeadingError, summary.HomeDistance, summary.Fitness)
			if summary.ArtifactsDir != "" {
				fmt.Fprintf(out, "artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
			}
			return nil
		},
	}
	addSimulationFlags(cmd)
	return cmd
}

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Simulate a seeded ensemble of bugs",
		Long: `Simulate N bugs on one landscape with seeds base, base+1, ... and
summarize heading error, displacement and the in-bounds fraction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			req := ensembleRequestFrom(cmd, cfg)
			summary, err := client.Ensemble(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(out, summary)
			}
			fmt.Fprintf(out, "ensemble completed ensemble_id=%s runs=%s base_seed=%d\n",
				summary.EnsembleID, humanize.Comma(int64(len(summary.RunIDs))), summary.BaseSeed)
			fmt.Fprintf(out, "heading_error mean=%.4f std=%.4f\n", summary.HeadingErrorMean, summary.HeadingErrorStd)
			fmt.Fprintf(out, "distance mean=%.3f std=%.3f\n", summary.DistanceMean, summary.DistanceStd)
			fmt.Fprintf(out, "in_bounds_fraction=%.4f\n", summary.InBoundsFraction)
			return nil
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().Int("runs", 0, "ensemble size")
	cmd.Flags().Int("workers", 0, "concurrent runs")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run an ensemble per contrast and heading-noise pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			contrasts, _ := cmd.Flags().GetFloat64Slice("contrasts")
			sigmas, _ := cmd.Flags().GetFloat64Slice("sigma-thetas")
			if len(contrasts) == 0 || len(sigmas) == 0 {
				return fmt.Errorf("sweep requires --contrasts and --sigma-thetas")
			}

			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			summary, err := client.Sweep(cmd.Context(), mayajiva.SweepRequest{
				EnsembleRequest: ensembleRequestFrom(cmd, cfg),
				Contrasts:       contrasts,
				SigmaThetas:     sigmas,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(out, summary)
			}
			fmt.Fprintf(out, "sweep completed sweep_id=%s cells=%s\n", summary.SweepID, humanize.Comma(int64(len(summary.Cells))))
			for _, cell := range summary.Cells {
				fmt.Fprintf(out, "contrast=%.4f sigma_theta=%.4f heading_error_mean=%.4f heading_error_std=%.4f distance_mean=%.3f in_bounds_fraction=%.4f\n",
					cell.Contrast, cell.SigmaTheta, cell.HeadingErrorMean, cell.HeadingErrorStd, cell.DistanceMean, cell.InBoundsFraction)
			}
			if summary.ArtifactsDir != "" {
				fmt.Fprintf(out, "artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
			}
			return nil
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().Int("runs", 0, "ensemble size per cell")
	cmd.Flags().Int("workers", 0, "concurrent runs")
	cmd.Flags().Float64Slice("contrasts", nil, "compass contrasts, comma separated")
	cmd.Flags().Float64Slice("sigma-thetas", nil, "heading diffusion values, comma separated")
	return cmd
}
