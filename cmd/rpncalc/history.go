package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/history/export"
	"intlab/rpncalc/pkg/history/retention"
	"intlab/rpncalc/pkg/history/storage"
)

var historyFlags struct {
	timeRange  string
	status     string
	kind       string
	source     string
	limit      int
	offset     int
	order      string
	format     string
	output     string
	days       int
	maxRecords int64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the evaluation history",
	Long: `List, export and prune recorded evaluations.

The store is taken from the history section of the configuration; it does
not need to be enabled for these commands to read it.

Subcommands:
  list    - List recorded evaluations with filters
  export  - Export records as JSON or CSV
  prune   - Apply the retention policy once`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded evaluations",
	Long: `List recorded evaluations, newest first.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-01-19T00:00:00Z/2026-01-20T00:00:00Z"

Examples:
  # Last 20 failures
  rpncalc history list --status error --limit 20

  # Division errors from the HTTP service
  rpncalc history list --kind divide_by_zero --source http`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded evaluations",
	Long: `Export recorded evaluations as a JSON array or CSV.

Examples:
  rpncalc history export --format csv --output history.csv
  rpncalc history export --time-range "2026-01-19T00:00:00Z/2026-01-20T00:00:00Z"`,
	Args: cobra.NoArgs,
	RunE: exportHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records outside the retention policy",
	Long: `Delete records older than the retention period, then the oldest
records above the maximum count. Flags override the configured policy.

Examples:
  rpncalc history prune
  rpncalc history prune --days 7 --max-records 10000`,
	Args: cobra.NoArgs,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyExportCmd, historyPruneCmd)

	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().StringVar(&historyFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
		c.Flags().StringVar(&historyFlags.status, "status", "", "filter by status (success, error)")
		c.Flags().StringVar(&historyFlags.kind, "kind", "", "filter by error kind")
		c.Flags().StringVar(&historyFlags.source, "source", "", "filter by source (cli, http, watch)")
		c.Flags().StringVar(&historyFlags.order, "order", history.SortDesc, "sort order by time (asc, desc)")
		c.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	}
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", history.DefaultQueryLimit, "max results")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyExportCmd.Flags().IntVar(&historyFlags.limit, "limit", 0, "max results (0 for all)")
	historyExportCmd.Flags().StringVar(&historyFlags.format, "format", export.FormatJSON, "output format: json, csv")
	historyExportCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "", "output file (default: stdout)")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", -1, "retention period in days (0 keeps forever; default from config)")
	historyPruneCmd.Flags().Int64Var(&historyFlags.maxRecords, "max-records", -1, "maximum records to keep (0 for unlimited; default from config)")
}

// buildHistoryQuery turns the shared filter flags into a query.
func buildHistoryQuery() (*history.Query, error) {
	query := &history.Query{
		Status:    history.Status(historyFlags.status),
		ErrorKind: historyFlags.kind,
		Source:    historyFlags.source,
		Limit:     historyFlags.limit,
		Offset:    historyFlags.offset,
		SortOrder: historyFlags.order,
	}

	switch query.Status {
	case "", history.StatusSuccess, history.StatusError:
	default:
		return nil, fmt.Errorf("invalid status %q (expected: success, error)", historyFlags.status)
	}
	switch query.SortOrder {
	case history.SortAsc, history.SortDesc:
	default:
		return nil, fmt.Errorf("invalid order %q (expected: asc, desc)", historyFlags.order)
	}

	if historyFlags.timeRange != "" {
		parts := strings.Split(historyFlags.timeRange, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid time range format (expected: start/end)")
		}

		startTime, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		query.StartTime = &startTime

		endTime, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		query.EndTime = &endTime
	}

	return query, nil
}

func openHistoryStore() (history.Storage, error) {
	store, err := storage.Open(&appConfig.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	query, err := buildHistoryQuery()
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	store, err := openHistoryStore()
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	defer store.Close()

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	out := cmd.OutOrStdout()
	switch historyFlags.format {
	case string(cli.FormatText), "":
		return writeHistoryTable(out, records)
	default:
		exporter, err := export.New(historyFlags.format)
		if err != nil {
			return cli.NewConfigError("format", err.Error())
		}
		return exporter.Export(cmd.Context(), records, out)
	}
}

func writeHistoryTable(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tSTATUS\tEXPRESSION\tRESULT")
	for _, r := range records {
		result := r.ErrorKind
		if r.Result != nil {
			result = cli.FormatValue(*r.Result)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Source, r.Status, r.Expression, result)
	}
	return tw.Flush()
}

func exportHistory(cmd *cobra.Command, args []string) error {
	query, err := buildHistoryQuery()
	if err != nil {
		return cli.NewCommandError("history export", err)
	}

	exporter, err := export.New(historyFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	store, err := openHistoryStore()
	if err != nil {
		return cli.NewCommandError("history export", err)
	}
	defer store.Close()

	records, err := queryAll(cmd.Context(), store, query)
	if err != nil {
		return cli.NewCommandError("history export", err)
	}

	out := cmd.OutOrStdout()
	if historyFlags.output != "" {
		f, err := os.Create(historyFlags.output)
		if err != nil {
			return cli.NewCommandError("history export", err)
		}
		defer f.Close()
		out = f
	}

	if err := exporter.Export(cmd.Context(), records, out); err != nil {
		return cli.NewCommandError("history export", err)
	}

	if historyFlags.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d records to %s\n", len(records), historyFlags.output)
	}
	return nil
}

// exportPageSize is the page size used when exporting without a limit.
const exportPageSize = 1000

// queryAll runs query, paging through every match when query.Limit is 0.
func queryAll(ctx context.Context, store history.Storage, query *history.Query) ([]*history.Record, error) {
	if query.Limit > 0 {
		return store.Query(ctx, query)
	}

	page := *query
	page.Limit = exportPageSize

	var all []*history.Record
	for {
		records, err := store.Query(ctx, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		if len(records) < page.Limit {
			return all, nil
		}
		page.Offset += len(records)
	}
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	retentionCfg := retention.ConfigFrom(&appConfig.History.Retention)
	if historyFlags.days >= 0 {
		retentionCfg.RetentionDays = historyFlags.days
	}
	if historyFlags.maxRecords >= 0 {
		retentionCfg.MaxRecords = historyFlags.maxRecords
	}

	store, err := openHistoryStore()
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	deleted, err := retention.NewPruner(store, retentionCfg, nil).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d records\n", deleted)
	return nil
}
