package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/corpusimport/internal/core"
)

// maxFailedShown caps the failed rows echoed to the terminal; all of them
// are logged.
const maxFailedShown = 10

func (a *app) importCmd() *cobra.Command {
	var (
		onError    string
		batchSize  int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "import <table> <file>",
		Short: "Import a tab-delimited corpus file into a table",
		Long: `Imports every row of file into table in a single transaction.

Tables: ` + strings.Join(core.ImportableNames(), ", ") + `

Rows with 3 or fewer fields are skipped. Interrupting the import
(Ctrl-C) rolls back everything imported so far.`,
		Args:              cobra.MatchAll(cobra.ExactArgs(2), tableArg),
		ValidArgsFunction: completeTable,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, path := args[0], args[1]

			f := cmd.Flags()
			if !f.Changed("on-error") {
				onError = a.cfg.Import.OnError
			}
			if !f.Changed("batch-size") {
				batchSize = a.cfg.Import.BatchSize
			}
			showProgress := a.cfg.Import.Progress && !noProgress

			policy, err := core.ParsePolicy(onError)
			if err != nil {
				return err
			}
			if batchSize < 1 {
				return fmt.Errorf("--batch-size must be at least 1, got %d", batchSize)
			}

			ctx := cmd.Context()
			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := core.ImportOptions{BatchSize: batchSize, OnError: policy}

			var bar *progressbar.ProgressBar
			if showProgress {
				bar = newRowCounter(a.stderr, table)
				opts.Progress = func(p core.ImportProgress) {
					_ = bar.Set(p.RowsRead)
				}
			}

			result, err := core.NewImporter(db, opts).Import(ctx, table, path)
			if bar != nil {
				_ = bar.Finish()
			}

			var ie *core.InterruptedError
			if errors.As(err, &ie) {
				yellow := color.New(color.FgYellow)
				yellow.Fprintln(a.stdout, ie.Cause)
				yellow.Fprintln(a.stdout, "rollback...")
				if !ie.Rolled {
					slog.Warn("rollback reported an error; the server discards the open transaction on disconnect")
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("import %s: %w", table, err)
			}

			a.printResult(result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&onError, "on-error", "abort", "row error policy: abort or skip")
	f.IntVar(&batchSize, "batch-size", 1, "records per INSERT statement")
	f.BoolVar(&noProgress, "no-progress", false, "disable the progress counter")
	return cmd
}

// tableArg restricts the first argument to importable tables.
func tableArg(_ *cobra.Command, args []string) error {
	names := core.ImportableNames()
	if !slices.Contains(names, args[0]) {
		return fmt.Errorf("invalid table %q (choose from %s)", args[0], strings.Join(names, ", "))
	}
	return nil
}

func completeTable(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return core.ImportableNames(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveDefault
}

// newRowCounter returns an unbounded spinner that counts rows.
func newRowCounter(w io.Writer, table string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("importing "+table),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

func (a *app) printResult(r *core.ImportResult) {
	green := color.New(color.FgGreen)
	green.Fprintf(a.stdout, "imported %d rows into %s", r.Inserted, r.Table)
	fmt.Fprintf(a.stdout, " (%d read, %d short rows skipped, %d failed) in %s\n",
		r.RowsRead, r.ShortRows, len(r.FailedRows), r.Duration.Round(time.Millisecond))

	if len(r.FailedRows) == 0 {
		return
	}

	yellow := color.New(color.FgYellow)
	for i, fr := range r.FailedRows {
		slog.Warn("row skipped", "run_id", r.RunID, "line", fr.Line, "reason", fr.Reason)
		if i < maxFailedShown {
			yellow.Fprintf(a.stdout, "  line %d: %s\n", fr.Line, fr.Reason)
		}
	}
	if n := len(r.FailedRows) - maxFailedShown; n > 0 {
		yellow.Fprintf(a.stdout, "  ... and %d more\n", n)
	}
}
