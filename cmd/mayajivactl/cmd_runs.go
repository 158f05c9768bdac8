package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mayajiva/internal/stats"
	"mayajiva/pkg/mayajiva"
)

// relativeTime renders an index timestamp as "3 minutes ago", falling back
// to the raw value when it does not parse.
func relativeTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List indexed runs, newest first",
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

			limit, _ := cmd.Flags().GetInt("limit")
			items, err := client.Runs(cmd.Context(), mayajiva.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "run_id=%s created=%q preset=%s seed=%d steps=%s in_bounds=%t mean_heading_error=%.4f fitness=%.6f\n",
					item.RunID, relativeTime(item.CreatedAtUTC), item.Preset, item.Seed, humanize.Comma(int64(item.Steps)),
					item.InBounds, item.MeanHeadingError, item.Fitness)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum runs to list")
	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run's summary",
		Args:  cobra.ExactArgs(1),
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

			summary, err := client.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(out, summary)
			}
			fmt.Fprintf(out, "run_id=%s preset=%s seed=%d created=%q\n",
				summary.RunID, summary.Preset, summary.Seed, relativeTime(summary.CreatedAtUTC))
			if summary.EnsembleID != "" {
				fmt.Fprintf(out, "ensemble_id=%s\n", summary.EnsembleID)
			}
			fmt.Fprintf(out, "steps=%s in_bounds=%t goal_heading=%.4f\n",
				humanize.Comma(int64(summary.Steps)), summary.InBounds, summary.GoalHeading)
			fmt.Fprintf(out, "final x=%.3f y=%.3f heading=%.4f distance=%.3f\n",
				summary.FinalX, summary.FinalY, summary.FinalHeading, summary.DistanceFromStart)
			fmt.Fprintf(out, "home distance=%.3f direction=%.4f\n", summary.HomeDistance, summary.HomeDirection)
			fmt.Fprintf(out, "mean_heading_error=%.4f fitness=%.6f\n", summary.MeanHeadingError, summary.Fitness)
			return nil
		},
	}
	return cmd
}

func newTrajectoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trajectory [run-id]",
		Short: "Print a run's trajectory as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			latest, _ := cmd.Flags().GetBool("latest")
			limit, _ := cmd.Flags().GetInt("limit")
			req := mayajiva.TrajectoryRequest{Latest: latest, Limit: limit}
			if len(args) == 1 {
				req.RunID = args[0]
			}
			if req.RunID == "" && !latest {
				return errors.New("trajectory requires a run id or --latest")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			points, err := client.Trajectory(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), points)
			}
			return stats.WriteTrajectoryCSV(cmd.OutOrStdout(), points)
		},
	}
	cmd.Flags().Bool("latest", false, "use the most recent run")
	cmd.Flags().Int("limit", 0, "maximum points (0 for all)")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy a run's artifacts to an export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, _ := cmd.Flags().GetString("run-id")
			latest, _ := cmd.Flags().GetBool("latest")
			outDir, _ := cmd.Flags().GetString("out")
			if runID == "" && !latest {
				return errors.New("export requires --run-id or --latest")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			exported, err := client.Export(cmd.Context(), mayajiva.ExportRequest{
				RunID:  runID,
				Latest: latest,
				OutDir: outDir,
			})
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), exported)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported run_id=%s to=%s\n", exported.RunID, filepath.Clean(exported.Directory))
			return nil
		},
	}
	cmd.Flags().String("run-id", "", "run id to export")
	cmd.Flags().Bool("latest", false, "export the most recent run")
	cmd.Flags().String("out", "exports", "export directory")
	return cmd
}
