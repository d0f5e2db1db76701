package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/rpn"
)

// demoExpressions exercise unary minus, nested parentheses and precedence.
var demoExpressions = []string{
	"-100+(3* (55 - 45))/(25-10)",
	"1-5*(10-(-100+ (-50-50)) + 100)/(100-90)",
	"-19 + (10 * 8 + 1)-100/(-10)",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Evaluate the built-in example expressions",
	Long: `Evaluate three example expressions and print each as
"<expression> = <result>".`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := false

	for _, expr := range demoExpressions {
		value, err := rpn.Calculate(expr)
		if err != nil {
			fmt.Fprintf(out, "%s: error: %v\n", expr, err)
			failed = true
			continue
		}
		fmt.Fprintf(out, "%s = %s\n", expr, cli.FormatValue(value))
	}

	if failed {
		return cli.ErrEvaluationFailed
	}
	return nil
}
