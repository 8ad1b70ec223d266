// Package main is the entry point for the tgconsole TUI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tgconsole/internal/api"
	"tgconsole/internal/config"
	"tgconsole/internal/groups"
	"tgconsole/internal/state"
	"tgconsole/internal/ui"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tgconsole",
		Short:         "Terminal console for the messaging automation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			return run(cfgPath)
		},
	}
	root.Flags().StringP("config", "c", "", "Path to configuration file")
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tgconsole %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func run(cfgPath string) error {
	cfgDir := config.Dir()
	if cfgPath == "" {
		cfgPath = filepath.Join(cfgDir, "config.yaml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config from %s: %v\n", cfgPath, err)
		fmt.Fprintf(os.Stderr, "\nCreate the config file with:\n")
		fmt.Fprintf(os.Stderr, "  mkdir -p %s\n", cfgDir)
		fmt.Fprintf(os.Stderr, "  cat > %s << 'EOF'\n", cfgPath)
		fmt.Fprintf(os.Stderr, "backend:\n  base_url: http://localhost:8000/api\nEOF\n")
		return err
	}

	// Log to a file; stdout belongs to the TUI.
	os.MkdirAll(cfgDir, 0700)
	logPath := filepath.Join(cfgDir, "tgconsole.log")
	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{logPath}
	logCfg.ErrorOutputPaths = []string{logPath}
	logCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.LogLevel))
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	client := api.New(cfg.Backend.BaseURL, cfg.Backend.Timeout(), logger)
	pipeline := groups.NewPipeline(client, logger)

	// Draw func is wired after the app exists.
	store := state.New(nil)
	app := ui.NewApp(store, client, pipeline, logger)
	store.SetDrawFunc(app.DrawFunc())

	logger.Info("starting", zap.String("backend", cfg.Backend.BaseURL), zap.String("version", version))

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
