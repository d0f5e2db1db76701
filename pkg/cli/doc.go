/*
Package cli provides command-line helpers for the rpncalc command.

Output Formatting:

Evaluation results can be printed as text, JSON lines, or CSV:

	formatter, err := cli.NewFormatter(cli.FormatJSON, false)
	if err != nil {
		return err
	}
	evals := []cli.Evaluation{cli.NewEvaluation(expr, res, err)}
	if err := formatter.FormatTo(os.Stdout, evals); err != nil {
		return err
	}

Progress Reporting:

Batch evaluation of an expressions file reports progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(lines))
	for _, line := range lines {
		_, err := calc.Calculate(line)
		progress.Step(err != nil)
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
