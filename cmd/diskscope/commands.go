package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/diskscope/internal/config"
	"github.com/fenilsonani/diskscope/internal/duplicates"
	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/reporter"
	"github.com/fenilsonani/diskscope/internal/scanner"
	"github.com/fenilsonani/diskscope/internal/system"
	"github.com/fenilsonani/diskscope/internal/ui"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func newScanCmd() *cobra.Command {
	var (
		limit     int
		staleDays int
		minSize   string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Report the largest files, space by extension and stale files",
		Long: heredoc.Doc(`
			Walks path (default the current directory) once and reports the
			largest files, total size per extension and files not modified
			within --stale-days. Unreadable directories are skipped silently.
		`),
		Example: heredoc.Doc(`
			$ diskscope scan ~/Downloads --limit 10
			$ diskscope scan / --min-size 100MB --workers 8 -f json
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("limit") {
				e.cfg.Scan.Limit = limit
			}
			if flags.Changed("stale-days") {
				e.cfg.Scan.StaleDays = staleDays
			}
			if flags.Changed("min-size") {
				e.cfg.Scan.MinSize = minSize
			}
			if flags.Changed("workers") {
				e.cfg.Scan.Workers = workers
			}

			scnr := scanner.New(e.cfg)
			req, err := scnr.NewRequest(rootArg(args))
			if err != nil {
				return err
			}

			pr, stop := followProgress()
			scnr.SetProgressReporter(pr)
			result, err := scnr.Scan(e.ctx, req)
			stop()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			return e.report(func(r *reporter.Reporter) error { return r.ReportScan(result) })
		},
	}

	cmd.Flags().IntVar(&limit, "limit", config.DefaultScanLimit, "number of largest files to report")
	cmd.Flags().IntVar(&staleDays, "stale-days", config.DefaultStaleDays, "age in days after which a file is stale")
	cmd.Flags().StringVar(&minSize, "min-size", "", "ignore files smaller than this in top and stale lists (e.g. 10MB)")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel walkers (1 walks sequentially)")

	return cmd
}

func newDupesCmd() *cobra.Command {
	var (
		minSize   string
		verify    bool
		maxGroups int
		workers   int
	)

	cmd := &cobra.Command{
		Use:     "dupes [path]",
		Aliases: []string{"duplicates"},
		Short:   "Find groups of files with identical size and sampled content",
		Long: heredoc.Doc(`
			Groups regular files under path by size, then by a fingerprint of
			a few sampled bytes. Groups are sorted by wasted space and capped
			at --max-groups.

			Sampling can group files that differ elsewhere. Use --verify to
			hash the full content of every candidate before grouping.
		`),
		Example: heredoc.Doc(`
			$ diskscope dupes ~/Pictures
			$ diskscope dupes ~ --min-size 50MB --verify
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("min-size") {
				e.cfg.Duplicates.MinSize = minSize
			}
			if flags.Changed("verify") {
				e.cfg.Duplicates.Verify = verify
			}
			if flags.Changed("max-groups") {
				e.cfg.Duplicates.MaxGroups = maxGroups
			}
			if flags.Changed("workers") {
				e.cfg.Duplicates.Workers = workers
			}

			detector, err := duplicates.New(e.cfg)
			if err != nil {
				return err
			}

			pr, stop := followProgress()
			detector.SetProgressReporter(pr)
			result, err := detector.Find(e.ctx, detector.NewRequest(rootArg(args)))
			stop()
			if err != nil {
				return fmt.Errorf("duplicate search failed: %w", err)
			}

			return e.report(func(r *reporter.Reporter) error { return r.ReportDuplicates(result) })
		},
	}

	cmd.Flags().StringVar(&minSize, "min-size", "", "ignore files smaller than this (default from config, 1MB)")
	cmd.Flags().BoolVar(&verify, "verify", false, "confirm groups by hashing full file content")
	cmd.Flags().IntVar(&maxGroups, "max-groups", duplicates.DefaultMaxGroups, "maximum number of groups to report")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel fingerprint workers (default from config)")

	return cmd
}

func newJunkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "junk",
		Short: "Size the well-known junk categories",
		Long: heredoc.Doc(`
			Sizes every junk category for this platform without deleting
			anything. Categories that only exist on some machines, such as
			Xcode derived data, are listed only when they hold data.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			categorizer, err := e.categorizer()
			if err != nil {
				return err
			}

			pr, stop := followProgress()
			categorizer.SetProgressReporter(pr)
			reports, err := categorizer.Scan(e.ctx)
			stop()
			if err != nil {
				return fmt.Errorf("junk sizing failed: %w", err)
			}

			return e.report(func(r *reporter.Reporter) error { return r.ReportJunk(reports) })
		},
	}
}

func (e *env) categorizer() (*junk.Categorizer, error) {
	info, err := e.platformInfo()
	if err != nil {
		return nil, err
	}
	return junk.New(e.cfg, info), nil
}

func newCleanCmd() *cobra.Command {
	var (
		dryRun   bool
		force    bool
		all      bool
		manifest string
	)

	cmd := &cobra.Command{
		Use:   "clean [category...]",
		Short: "Delete the contents of junk categories",
		Long: heredoc.Docf(`
			Deletes every top-level entry inside the roots of the named junk
			categories. Protected paths are never touched, and failures are
			collected without stopping the run.

			Categories: %s
		`, strings.Join(categoryIDs(), ", ")),
		Example: heredoc.Doc(`
			$ diskscope clean system_cache temp_files --dry-run
			$ diskscope clean --all --force --manifest deleted.txt
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				e.cfg.DryRun = dryRun
			}

			categorizer, err := e.categorizer()
			if err != nil {
				return err
			}

			ids := args
			if all {
				ids = nil
				for _, c := range categorizer.Categories() {
					ids = append(ids, c.ID())
				}
			}
			if len(ids) == 0 {
				return errors.New("no categories given; name some or pass --all")
			}
			for _, id := range ids {
				if _, ok := categorizer.Lookup(id); !ok {
					e.logger.Warn().Str("category", id).Msg("ignoring unknown or disabled category")
				}
			}

			if !e.cfg.DryRun && !force {
				ok, err := confirmClean(e, categorizer, ids)
				if err != nil || !ok {
					return err
				}
			}

			pr, stop := followProgress()
			categorizer.SetProgressReporter(pr)
			result, err := categorizer.Clean(e.ctx, ids)
			stop()
			if err != nil && result == nil {
				return fmt.Errorf("clean failed: %w", err)
			}

			if manifest != "" {
				if saveErr := categorizer.Cleaner().GetManifest().Save(manifest); saveErr != nil {
					return fmt.Errorf("failed to save manifest: %w", saveErr)
				}
			}

			if reportErr := e.report(func(r *reporter.Reporter) error { return r.ReportClean(result) }); reportErr != nil {
				return reportErr
			}
			if err != nil {
				return fmt.Errorf("clean stopped early: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "measure what would be freed without deleting")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&all, "all", false, "clean every enabled category")
	cmd.Flags().StringVar(&manifest, "manifest", "", "write the list of removed entries to this file")

	return cmd
}

func categoryIDs() []string {
	ids := make([]string, 0, len(junk.AllCategories))
	for _, c := range junk.AllCategories {
		ids = append(ids, c.ID())
	}
	return ids
}

// confirmClean sizes the chosen categories and asks before deleting.
// Without a terminal on stdin the run is refused rather than guessed.
func confirmClean(e *env, categorizer *junk.Categorizer, ids []string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, errors.New("refusing to delete without confirmation; pass --force or --dry-run")
	}

	reports, err := categorizer.Scan(e.ctx)
	if err != nil {
		return false, fmt.Errorf("junk sizing failed: %w", err)
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	out := e.cmd.ErrOrStderr()
	var total uint64
	for _, r := range reports {
		if wanted[r.Category.ID()] {
			fmt.Fprintf(out, "  %-24s %10s  %d entries\n", r.Category.Name(), utils.HumanSize(r.Size), len(r.Items))
			total += r.Size
		}
	}
	fmt.Fprintf(out, "\nDelete %s? (y/N): ", utils.HumanSize(total))

	answer, _ := bufio.NewReader(e.cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(out, "Cleanup cancelled")
		return false, nil
	}
	return true, nil
}

func newInteractiveCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i", "tui"},
		Short:   "Pick junk categories to clean in a terminal UI",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				e.cfg.DryRun = dryRun
			}

			categorizer, err := e.categorizer()
			if err != nil {
				return err
			}

			result, err := ui.RunInteractive(e.ctx, categorizer, e.cfg.DryRun)
			if err != nil {
				return err
			}
			if result == nil {
				return nil
			}

			return reporter.New(cmd.OutOrStdout(), reporter.FormatSummary).ReportClean(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "measure what would be freed without deleting")
	return cmd
}

func newDiskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disk [path]",
		Short: "Show capacity and free space of the filesystem holding path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			path := "/"
			if len(args) > 0 {
				path = args[0]
			}

			usage, err := system.GetDiskUsage(path)
			if err != nil {
				return fmt.Errorf("failed to get disk usage: %w", err)
			}
			return e.report(func(r *reporter.Reporter) error { return r.ReportDisk(usage) })
		},
	}
}

func newPsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List the processes using the most CPU",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			procs, err := system.ListProcesses(e.ctx, limit)
			if err != nil {
				return err
			}
			return e.report(func(r *reporter.Reporter) error { return r.ReportProcesses(procs) })
		},
	}

	cmd.Flags().IntVar(&limit, "limit", system.DefaultProcessLimit, "number of processes to list")
	return cmd
}

func newStartupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "startup",
		Short: "List programs registered to start at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			info, err := e.platformInfo()
			if err != nil {
				return err
			}
			items := system.ListStartupItems(info)
			return e.report(func(r *reporter.Reporter) error { return r.ReportStartup(items) })
		},
	}
}

func newConfigCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvedConfigPath()
			if err != nil {
				return err
			}

			created, err := config.EnsureConfigExists(path)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", path)
			}
			return nil
		},
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display current configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	cmd.AddCommand(showCmd, initCmd)
	return cmd
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# Config file: %s\n", path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "# Not found, showing defaults. Run 'diskscope config init' to create it.")
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(e.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

