package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	dupehash "github.com/mattkeenan/dupehash/pkg"
)

const (
	exitOK          = 0
	exitError       = 1
	exitProblems    = 2
	exitInterrupted = 130
)

var longHelp = strings.TrimSpace(`
dupehash finds duplicate files in a directory tree.

Files are grouped by size and content digest. Each group of identical
files is printed together, smallest files first.
`)

var exampleUsage = strings.TrimSpace(`
  dupehash -r ~/Pictures
  dupehash -r -e -d --min 1M /srv/data
  dupehash -r --format json -a sha3-256 .
  dupehash -r --watch --set hash_workers:4 ~/Downloads
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	status := exitOK
	cmd := newRootCommand(stdout, stderr, &status)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "dupehash: %v\n", err)
		return exitCodeFor(err)
	}
	return status
}

func newRootCommand(stdout, stderr io.Writer, status *int) *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:           "dupehash [DIRECTORY]",
		Short:         "Find duplicate files by size and content digest",
		Long:          longHelp,
		Example:       exampleUsage,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Fprintf(stdout, "dupehash version %s\n", getVersion())
				return nil
			}
			if flags.initConfig != "" {
				return writeDefaultConfig(stdout, flags.initConfig)
			}

			root := dupehash.DefaultRoot
			if len(args) == 1 {
				root = args[0]
			}

			code, err := execute(cmd.Context(), flags, changedFlags(cmd), root, stdout, stderr)
			*status = code
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	flags.bind(cmd.Flags())
	return cmd
}

func writeDefaultConfig(stdout io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return &dupehash.ConfigError{Field: "init-config", Value: path, Err: os.ErrExist}
	}
	cfg, err := dupehash.NewDefaultConfig(path)
	if err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote default configuration to %s\n", cfg.Path())
	return nil
}

// execute resolves the layered configuration and runs one scan, or a watch loop
func execute(parent context.Context, flags *cliFlags, changed map[string]bool, root string, stdout, stderr io.Writer) (int, error) {
	dupehash.SetLogOutput(stderr)

	settings, err := flags.resolveSettings(changed)
	if err != nil {
		return exitError, err
	}

	if settings.VerboseLevel != nil {
		if err := dupehash.ValidateVerboseLevel(*settings.VerboseLevel); err != nil {
			return exitError, &dupehash.ConfigError{Field: "verbose level", Err: err}
		}
		dupehash.SetVerboseLevel(*settings.VerboseLevel)
	}
	if settings.Debug != nil {
		dupehash.SetDebugFlags(*settings.Debug)
	}

	opts := dupehash.DefaultScanOptions()
	opts.Root = root
	if err := settings.ApplyScan(opts); err != nil {
		return exitError, err
	}

	out := dupehash.DefaultReportOptions()
	if err := settings.ApplyOutput(out); err != nil {
		return exitError, err
	}
	if flags.details {
		out.SetDetails()
	}

	var progress *progressPrinter
	if !flags.quiet && out.Format != "json" {
		progress = newProgressPrinter(stderr)
	}
	if progress != nil {
		opts.Progress = progress.update
	}

	ctx, cancel := setupSignalContext(parent, stderr)
	defer cancel()

	if flags.watch {
		return watch(ctx, opts, out, progress, flags.strictExit, stdout)
	}

	report, err := dupehash.FindDuplicates(ctx, opts)
	if progress != nil {
		progress.finish()
	}
	if err != nil {
		return exitCodeFor(err), err
	}
	if err := emit(stdout, report, out); err != nil {
		return exitError, err
	}
	if flags.strictExit && report.HasProblems() {
		return exitProblems, nil
	}
	return exitOK, nil
}

// watch prints a fresh report after every burst of filesystem changes
func watch(ctx context.Context, opts *dupehash.ScanOptions, out *dupehash.ReportOptions, progress *progressPrinter, strict bool, stdout io.Writer) (int, error) {
	sawProblems := false
	watcher := dupehash.NewWatcher(opts, dupehash.DefaultWatchDebounce, func(report *dupehash.Report, err error) {
		if progress != nil {
			progress.finish()
		}
		if err != nil {
			dupehash.Logger().Error().Err(err).Msg("scan failed")
			return
		}
		if report.HasProblems() {
			sawProblems = true
		}
		if err := emit(stdout, report, out); err != nil {
			dupehash.Logger().Error().Err(err).Msg("failed to write report")
		}
	})

	if err := watcher.Run(ctx); err != nil {
		return exitCodeFor(err), err
	}
	if strict && sawProblems {
		return exitProblems, nil
	}
	return exitOK, nil
}

// emit logs the per-entry problems of a run and renders the report
func emit(stdout io.Writer, report *dupehash.Report, out *dupehash.ReportOptions) error {
	log := dupehash.Logger().With().Str("run", report.RunID).Logger()
	for _, w := range report.Warnings {
		log.Warn().Err(w.Err).Str("path", w.Path).Str("op", w.Op).Msg("skipped entry")
	}
	for _, h := range report.HashErrors {
		log.Warn().Err(h.Err).Str("path", h.Path).Msg("could not hash file")
	}
	return dupehash.RenderReport(stdout, report, out)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, dupehash.ErrInterrupted):
		return exitInterrupted
	default:
		return exitError
	}
}
