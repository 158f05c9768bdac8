package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mayajiva/internal/config"
	"mayajiva/internal/logging"
	"mayajiva/pkg/mayajiva"
)

var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mayajivactl",
		Short: "Magnetic navigation simulator",
		Long: `mayajivactl runs simulated bugs that steer by a radical-pair compass
across synthetic magnetic landscapes, and reads back persisted results.

Single runs, seeded ensembles and contrast/noise sweeps write artifacts
under the artifacts directory and are indexed for later listing and export.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace|debug|info|warn|error")
	rootCmd.PersistentFlags().String("store", "", "store backend: memory|sqlite")
	rootCmd.PersistentFlags().String("db-path", "", "sqlite database path")
	rootCmd.PersistentFlags().String("artifacts-dir", "", "run artifacts directory")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newRunCmd(),
		newEnsembleCmd(),
		newSweepCmd(),
		newRunsCmd(),
		newShowCmd(),
		newTrajectoryCmd(),
		newExportCmd(),
		newValidateCmd(),
		newDumpReferenceCmd(),
		newFieldCmd(),
		newDriveCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig resolves defaults, the config file, environment and finally
// explicitly set global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		if !logging.ValidLevel(v) {
			return nil, fmt.Errorf("invalid log level: %s", v)
		}
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Kind = v
	}
	if v, _ := cmd.Flags().GetString("db-path"); v != "" {
		cfg.Store.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("artifacts-dir"); v != "" {
		cfg.Store.ArtifactsDir = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

func newClient(cmd *cobra.Command, cfg *config.Config) (*mayajiva.Client, error) {
	return mayajiva.New(mayajiva.Options{
		StoreKind:    cfg.Store.Kind,
		DBPath:       cfg.Store.DBPath,
		ArtifactsDir: cfg.Store.ArtifactsDir,
		LogLevel:     cfg.Logging.Level,
		Logger:       newLogger(cmd, cfg),
		Workers:      cfg.Run.Workers,
	})
}

func jsonOutput(cmd *cobra.Command) bool {
	jsonOut, _ := cmd.Flags().GetBool("json")
	return jsonOut
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput(cmd) {
				_ = printJSON(cmd.OutOrStdout(), map[string]string{"version": version})
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mayajivactl version %s\n", version)
		},
	}
}
