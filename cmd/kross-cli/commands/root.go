package commands

import (
	"context"
	"krossbooking/lib/telemetry"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpDir    string

	otel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "kross-cli",
	Short: "kross-cli is a CLI for listing Krossbooking reservations.",

	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initSlog(verbose)
		initTelemetry(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The json5 config holding the hotel and credentials.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enables debug logs.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump", "", "Writes every HTTP exchange to this directory, may start with <dev_state>.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// telemetry is only exported when a telemetry.json5 can be found
func initTelemetry(ctx context.Context) {
	t, err := telemetry.SetupFromEnv(ctx, "kross-cli")
	if os.IsNotExist(err) {
		slog.Debug("telemetry.json5 not found, skipping telemetry setup")
		return
	}
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
		return
	}
	otel = t
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

// ExecuteContext runs the CLI and flushes telemetry whether or not the
// command failed.
func ExecuteContext(ctx context.Context) error {
	defer shutdownTelemetry()
	return rootCmd.ExecuteContext(ctx)
}
