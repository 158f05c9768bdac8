package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
	"mayajiva/internal/parity"
)

const defaultFixturePath = "testdata/fixtures/parity/bug_reference.json"

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Replay a reference fixture and compare trajectories",
		Long: `Replay the noiseless bug described by a reference fixture on a uniform
landscape and compare positions and headings at every sampled step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("fixture")
			tol := parity.DefaultTolerance()
			tol.Position, _ = cmd.Flags().GetFloat64("position-tol")
			tol.Heading, _ = cmd.Flags().GetFloat64("heading-tol")

			fixture, err := parity.LoadFixture(path)
			if err != nil {
				return err
			}
			report, _, err := parity.Replay(fixture, tol)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				if err := printJSON(out, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "parity fixture=%s checked=%d max_position_error=%.6f max_heading_error=%.6f passed=%t\n",
					path, report.Checked, report.MaxPositionError, report.MaxHeadingError, report.Passed())
				for _, m := range report.Mismatches {
					fmt.Fprintf(out, "mismatch index=%d field=%s got=%.6f want=%.6f diff=%.6f\n", m.Index, m.Field, m.Got, m.Want, m.Diff)
				}
			}
			if !report.Passed() {
				return fmt.Errorf("parity failed: %d mismatches", len(report.Mismatches))
			}
			return nil
		},
	}
	def := parity.DefaultTolerance()
	cmd.Flags().String("fixture", defaultFixturePath, "reference fixture path")
	cmd.Flags().Float64("position-tol", def.Position, "absolute position tolerance")
	cmd.Flags().Float64("heading-tol", def.Heading, "wrapped heading tolerance in radians")
	return cmd
}

func newDumpReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-reference",
		Short: "Write a reference fixture from a noiseless run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")
			steps, _ := cmd.Flags().GetInt("steps")
			samples, _ := cmd.Flags().GetInt("samples")
			dt, _ := cmd.Flags().GetFloat64("dt")
			heading, _ := cmd.Flags().GetFloat64("heading")
			goal, _ := cmd.Flags().GetFloat64("goal")
			seed, _ := cmd.Flags().GetInt64("seed")
			if steps < 1 {
				return fmt.Errorf("steps must be >= 1, got %d", steps)
			}
			if dt <= 0 {
				return fmt.Errorf("dt must be > 0, got %g", dt)
			}

			params := agent.DefaultParams().Noiseless().WithHeading(heading)
			params.GoalHeading = goal
			params.Seed = seed
			bug, err := agent.New(params)
			if err != nil {
				return err
			}
			fieldCfg := landscape.DefaultConfig()
			land := landscape.New(fieldCfg)
			for i := 0; i < steps; i++ {
				bug.Step(dt, land)
			}

			fixture := parity.FixtureFromHistory(params, fieldCfg, bug.History(), dt, parity.EvenIndices(steps, samples))
			if err := parity.WriteFixture(outPath, fixture); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"path":    outPath,
					"steps":   steps,
					"samples": len(fixture.Trajectory),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote reference path=%s steps=%s samples=%d\n",
				outPath, humanize.Comma(int64(steps)), len(fixture.Trajectory))
			return nil
		},
	}
	cmd.Flags().String("out", defaultFixturePath, "fixture output path")
	cmd.Flags().Int("steps", 1000, "steps to simulate")
	cmd.Flags().Int("samples", 10, "sampled intervals across the run")
	cmd.Flags().Float64("dt", 0.01, "integration step in seconds")
	cmd.Flags().Float64("heading", 0, "initial heading in radians")
	cmd.Flags().Float64("goal", agent.DefaultGoal, "goal heading in radians")
	cmd.Flags().Int64("seed", 42, "bug seed")
	return cmd
}
