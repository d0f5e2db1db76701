package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/rpn/token"
)

var evalFlags struct {
	format   string
	postfix  bool
	lenient  bool
	record   bool
	file     string
	progress bool
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression...]",
	Short: "Evaluate infix expressions",
	Long: `Evaluate one or more infix expressions. Each argument is a separate
expression; quote expressions that contain spaces or '*'.

Without arguments, expressions are read one per line from --file or from
stdin. Blank lines and lines starting with '#' are skipped.

The command exits non-zero if any expression fails.

Examples:
  # Evaluate two expressions
  rpncalc eval "2 * (3 + 4)" "-5 + 10"

  # Show postfix form alongside results
  rpncalc eval --postfix "1 - 2 * 3"

  # Use -- when an expression starts with a minus sign
  rpncalc eval -- "-5 + 10"

  # Evaluate a file as JSON lines and record to history
  rpncalc eval --file exprs.txt --format json --record`,
	RunE: runEval,
}

var convertCmd = &cobra.Command{
	Use:   "convert <expression>",
	Short: "Convert an infix expression to postfix",
	Long: `Convert an infix expression to Reverse Polish Notation without evaluating
it. Multiple arguments are joined with spaces.

Examples:
  rpncalc convert "2 * (3 + 4)"      # 2 3 4 + *
  rpncalc convert --format json "-1+2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var postfixCmd = &cobra.Command{
	Use:   "postfix <tokens...>",
	Short: "Evaluate postfix input",
	Long: `Evaluate whitespace separated postfix tokens. Multiple arguments are
joined with spaces.

Examples:
  rpncalc postfix "3 4 + 2 *"        # 14
  rpncalc postfix 10 -2 /            # -5
  rpncalc postfix -- -2 3 +          # 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPostfix,
}

func init() {
	rootCmd.AddCommand(evalCmd, convertCmd, postfixCmd)

	evalCmd.Flags().StringVar(&evalFlags.format, "format", "text", "output format: text, json, csv")
	evalCmd.Flags().BoolVar(&evalFlags.postfix, "postfix", false, "also print the postfix form")
	evalCmd.Flags().BoolVar(&evalFlags.lenient, "lenient", false, "return the top of the stack when operands are left over")
	evalCmd.Flags().BoolVar(&evalFlags.record, "record", false, "record evaluations to the history store")
	evalCmd.Flags().StringVarP(&evalFlags.file, "file", "f", "", "read expressions from a file")
	evalCmd.Flags().BoolVar(&evalFlags.progress, "progress", false, "show progress on stderr (with --file)")

	convertCmd.Flags().StringVar(&evalFlags.format, "format", "text", "output format: text, json")
	postfixCmd.Flags().StringVar(&evalFlags.format, "format", "text", "output format: text, json")
	postfixCmd.Flags().BoolVar(&evalFlags.lenient, "lenient", false, "return the top of the stack when operands are left over")

	// Postfix tokens such as "-2" must not be taken for flags.
	postfixCmd.Flags().SetInterspersed(false)
}

func runEval(cmd *cobra.Command, args []string) error {
	printer, err := newEvalPrinter(cmd.OutOrStdout(), evalFlags.format, evalFlags.postfix)
	if err != nil {
		return err
	}

	exprs := args
	if len(exprs) == 0 {
		input := cmd.InOrStdin()
		if evalFlags.file != "" {
			f, err := os.Open(evalFlags.file)
			if err != nil {
				return cli.NewCommandError("eval", err)
			}
			defer f.Close()
			input = f
		}
		if exprs, err = readExpressions(input); err != nil {
			return cli.NewCommandError("eval", err)
		}
	}

	var sink *historySink
	if evalFlags.record {
		if sink, err = openHistory(&appConfig.History, nil); err != nil {
			return cli.NewCommandError("eval", err)
		}
		defer sink.Close()
	}

	var progress cli.ProgressReporter
	if evalFlags.progress && evalFlags.file != "" {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	eng := newCLIEngine(appConfig.Calculator, evalFlags.lenient, sink)
	if err := evaluateAll(cmd.Context(), eng, history.SourceCLI, exprs, printer, progress); err != nil {
		return cli.NewCommandError("eval", err)
	}
	return printer.result()
}

func runConvert(cmd *cobra.Command, args []string) error {
	expr := strings.Join(args, " ")
	eng := newCLIEngine(appConfig.Calculator, false, nil)

	tokens, err := eng.Convert(cmd.Context(), history.SourceCLI, expr)
	if err != nil {
		return printFailure(cmd, expr, err)
	}

	out := cmd.OutOrStdout()
	switch evalFlags.format {
	case string(cli.FormatJSON):
		return json.NewEncoder(out).Encode(map[string]any{
			"expression": expr,
			"postfix":    token.Format(tokens),
			"tokens":     token.Texts(tokens),
		})
	case string(cli.FormatText), "":
		_, err = fmt.Fprintln(out, token.Format(tokens))
		return err
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unsupported output format %q (supported: text, json)", evalFlags.format))
	}
}

func runPostfix(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	eng := newCLIEngine(appConfig.Calculator, evalFlags.lenient, nil)

	value, err := eng.EvaluatePostfix(cmd.Context(), history.SourceCLI, text)
	if err != nil {
		return printFailure(cmd, text, err)
	}

	out := cmd.OutOrStdout()
	switch evalFlags.format {
	case string(cli.FormatJSON):
		return json.NewEncoder(out).Encode(map[string]any{
			"postfix": text,
			"result":  value,
		})
	case string(cli.FormatText), "":
		_, err = fmt.Fprintln(out, cli.FormatValue(value))
		return err
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unsupported output format %q (supported: text, json)", evalFlags.format))
	}
}

// printFailure reports a single failed expression on stderr.
func printFailure(cmd *cobra.Command, expr string, err error) error {
	eval := cli.NewEvaluation(expr, nil, err)
	if ferr := (&cli.TextFormatter{}).FormatTo(cmd.ErrOrStderr(), []cli.Evaluation{eval}); ferr != nil {
		return ferr
	}
	return cli.ErrEvaluationFailed
}
