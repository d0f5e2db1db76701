package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/engine"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/watch"
)

var watchFlags struct {
	file     string
	format   string
	postfix  bool
	lenient  bool
	record   bool
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate an expressions file whenever it changes",
	Long: `Evaluate every expression in a file (one per line, '#' comments allowed)
and evaluate the file again each time it is saved. Runs until interrupted.

Examples:
  rpncalc watch --file exprs.txt
  rpncalc watch --file exprs.txt --postfix --record`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.file, "file", "f", "", "expressions file to watch (required)")
	watchCmd.Flags().StringVar(&watchFlags.format, "format", "text", "output format: text, json, csv")
	watchCmd.Flags().BoolVar(&watchFlags.postfix, "postfix", false, "also print the postfix form")
	watchCmd.Flags().BoolVar(&watchFlags.lenient, "lenient", false, "return the top of the stack when operands are left over")
	watchCmd.Flags().BoolVar(&watchFlags.record, "record", false, "record evaluations to the history store")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before re-evaluating (default from config)")
	_ = watchCmd.MarkFlagRequired("file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if _, err := newEvalPrinter(io.Discard, watchFlags.format, false); err != nil {
		return err
	}

	debounce := watchFlags.debounce
	if debounce <= 0 {
		debounce = appConfig.Watch.DebounceInterval
	}

	watcher, err := watch.NewFileWatcher(&watch.Config{
		Path:             watchFlags.file,
		DebounceInterval: debounce,
	}, nil)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	var sink *historySink
	if watchFlags.record {
		if sink, err = openHistory(&appConfig.History, nil); err != nil {
			watcher.Stop()
			return cli.NewCommandError("watch", err)
		}
		defer sink.Close()
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	eng := newCLIEngine(appConfig.Calculator, watchFlags.lenient, sink)
	out := cmd.OutOrStdout()

	if err := evaluateFile(ctx, eng, watchFlags.file, out); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	// Debounced callbacks may overlap; keep each run's output together.
	var mu sync.Mutex
	if err := watcher.Watch(ctx, func(string) error {
		mu.Lock()
		defer mu.Unlock()
		return evaluateFile(ctx, eng, watchFlags.file, out)
	}); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// evaluateFile prints a header and the evaluation of every expression in
// path. Failed expressions are printed, not returned.
func evaluateFile(ctx context.Context, eng *engine.Engine, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	exprs, err := readExpressions(f)
	f.Close()
	if err != nil {
		return err
	}

	printer, err := newEvalPrinter(out, watchFlags.format, watchFlags.postfix)
	if err != nil {
		return err
	}

	if watchFlags.format == string(cli.FormatText) {
		fmt.Fprintf(out, "== %s (%s, %d expressions)\n", path, time.Now().Format(time.TimeOnly), len(exprs))
	}
	return evaluateAll(ctx, eng, history.SourceWatch, exprs, printer, nil)
}
