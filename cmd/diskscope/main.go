package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/diskscope/internal/config"
	"github.com/fenilsonani/diskscope/internal/logging"
	"github.com/fenilsonani/diskscope/internal/platform"
	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/reporter"
	"github.com/fenilsonani/diskscope/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	outputFmt  string
	outputFile string
	homeDir    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "diskscope",
		Short: "Filesystem analysis and junk cleanup",
		Long: heredoc.Doc(`
			diskscope walks a directory tree and reports the largest files,
			space by extension, stale files and duplicate content. It also
			sizes and cleans well-known junk locations such as caches, logs,
			the trash and temporary directories.
		`),
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path (default ~/.config/diskscope/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	flags.StringVarP(&outputFmt, "format", "f", "table", "output format (table, summary, json, yaml)")
	flags.StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	flags.StringVar(&homeDir, "home", "", "home directory used for junk locations (default current user's)")

	rootCmd.AddCommand(
		newScanCmd(),
		newDupesCmd(),
		newJunkCmd(),
		newCleanCmd(),
		newInteractiveCmd(),
		newDiskCmd(),
		newPsCmd(),
		newStartupCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// env is the per-invocation state every command starts from.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	logger zerolog.Logger
	format reporter.OutputFormat
	cmd    *cobra.Command
}

// setup loads configuration, applies the global flags and attaches a
// run-scoped logger to the command context.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if homeDir != "" {
		cfg.HomeDir = homeDir
	}

	format, err := reporter.ParseFormat(outputFmt)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr(), verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, logger = logging.WithRun(ctx, logger, cmd.Name())

	return &env{
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		format: format,
		cmd:    cmd,
	}, nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

func (e *env) platformInfo() (*platform.Info, error) {
	info, err := platform.GetInfo(e.cfg.HomeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}
	return info, nil
}

// report renders through the chosen format to stdout or --output.
func (e *env) report(render func(*reporter.Reporter) error) error {
	if outputFile == "" {
		return render(reporter.New(e.cmd.OutOrStdout(), e.format))
	}

	if err := reporter.SaveToFile(outputFile, e.format, render); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	fmt.Fprintf(e.cmd.ErrOrStderr(), "Report saved to: %s\n", outputFile)
	return nil
}

// followProgress draws a live status line on a terminal stderr until the
// returned function is called.
func followProgress() (*progress.ProgressReporter, func()) {
	pr := progress.NewProgressReporter()
	stop := ui.NewLiveProgress(os.Stderr).Follow(pr)
	return pr, stop
}
