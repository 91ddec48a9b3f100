package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/formatter"
	"github.com/yildizm/EstateInsights/internal/logger"
	"github.com/yildizm/EstateInsights/internal/session"
	"github.com/yildizm/EstateInsights/internal/table"
	"github.com/yildizm/EstateInsights/internal/ui"
)

var (
	analyzeSearch      string
	analyzeSort        string
	analyzeDesc        bool
	analyzePage        int
	analyzeSave        string
	analyzeInteractive bool
	analyzeAISummary   bool
	analyzeOutputFile  string
	analyzeTimeout     time.Duration
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [query...]",
		Short: "Analyze a locality",
		Long: `Send a plain-language query to the analysis service and render the
result: key metrics, yearly trends, the data table and the service summary.

Without a query, or with --interactive, the dashboard opens instead.

Examples:
  estateinsights analyze Analyze Wakad
  estateinsights analyze "Price trend of Aundh" --sort Year --desc
  estateinsights analyze "Analyze Akurdi" --search 2022 -o json
  estateinsights analyze "Analyze Wakad" --ai-summary --save wakad.json`,
		RunE: runAnalyze,
	}

	addViewFlags(cmd)
	cmd.Flags().IntVar(&analyzePage, "page", 1, "table page to show")
	cmd.Flags().StringVar(&analyzeSave, "save", "", "save the analysis snapshot to a JSON file (see watch)")
	cmd.Flags().BoolVarP(&analyzeInteractive, "interactive", "i", false, "open the interactive dashboard")
	cmd.Flags().BoolVar(&analyzeAISummary, "ai-summary", false, "also request an AI summary")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "request timeout (default from config)")

	return cmd
}

// addViewFlags registers the table view flags shared by analyze and export
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&analyzeSearch, "search", "s", "", "only keep rows with a cell containing this text")
	cmd.Flags().StringVar(&analyzeSort, "sort", "", "sort the table by this column")
	cmd.Flags().BoolVar(&analyzeDesc, "desc", false, "sort descending")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	if shouldUseTUIMode(query, isInteractiveTerminal()) {
		return runDashboard(cmd.Context(), query)
	}
	if query == "" {
		return fmt.Errorf("a query is required when not running in a terminal")
	}

	ctx, cancel := requestContext(cmd.Context())
	defer cancel()

	ctrl, res, err := runQuery(ctx, query)
	if err != nil {
		return err
	}

	opts := viewOptions{search: analyzeSearch, sort: analyzeSort, desc: analyzeDesc, page: analyzePage}
	if err := opts.apply(res.Table); err != nil {
		return err
	}

	aiSummary := ""
	if analyzeAISummary {
		aiSummary, err = ctrl.Summarize(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s AI summary unavailable: %v\n", emoji.GetEmoji("warning"), err)
		}
	}

	if analyzeSave != "" {
		if err := saveSnapshot(ctrl, analyzeSave); err != nil {
			return err
		}
	}

	report := &formatter.Report{
		Query:     query,
		Result:    res,
		AISummary: aiSummary,
		Generated: time.Now(),
	}
	return formatAndOutput(cmd.OutOrStdout(), report, analyzeOutputFile)
}

// shouldUseTUIMode opens the dashboard on request, or when there is no
// query and a terminal to draw on
func shouldUseTUIMode(query string, terminal bool) bool {
	if analyzeInteractive {
		return true
	}
	return query == "" && terminal
}

func runDashboard(ctx context.Context, query string) error {
	cfg := GetGlobalConfig()

	// log lines would corrupt the alternate screen
	log := logger.Discard()
	client, err := newClient(log)
	if err != nil {
		return err
	}

	return ui.Run(newController(client, log), ui.Options{
		Context:      ctx,
		InitialQuery: query,
		ChartMode:    chart.ParseMode(cfg.Chart.DefaultMode),
		ChartHeight:  cfg.Chart.Height,
		ExportDir:    cfg.Output.ExportDir,
		Theme:        cfg.Output.Theme,
		Logger:       log,
	})
}

func requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	timeout := analyzeTimeout
	if timeout <= 0 {
		// the client enforces the configured per-request timeout
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// runQuery submits query through a fresh controller
func runQuery(ctx context.Context, query string) (*session.Controller, *session.Result, error) {
	client, err := newClient(newLogger("api"))
	if err != nil {
		return nil, nil, err
	}
	ctrl := newController(client, newLogger("session"))

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Querying %s: %q\n", client.BaseURL(), query)
	}
	res, err := ctrl.Submit(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, res, nil
}

// viewOptions are the table view flags
type viewOptions struct {
	search string
	sort   string
	desc   bool
	page   int
}

func (o viewOptions) apply(t *table.Table) error {
	if o.search != "" {
		t.SetSearchTerm(o.search)
	}
	if o.sort != "" {
		column, err := resolveColumn(t.Columns(), o.sort)
		if err != nil {
			return err
		}
		dir := table.Ascending
		if o.desc {
			dir = table.Descending
		}
		t.SetSort(table.SortBy(column, dir))
	} else if o.desc {
		return fmt.Errorf("--desc requires --sort")
	}
	if o.page > 1 {
		t.SetPage(o.page)
	}
	return nil
}

// resolveColumn matches name against the raw or display column names,
// ignoring case
func resolveColumn(columns []string, name string) (string, error) {
	for _, c := range columns {
		if strings.EqualFold(c, name) || strings.EqualFold(table.FormatColumnName(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column %q (columns: %s)", name, strings.Join(columns, ", "))
}

func saveSnapshot(ctrl *session.Controller, path string) error {
	saved, err := ctrl.Save(time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := session.WriteSnapshot(path, saved); err != nil {
		return err
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Snapshot saved to: %s\n", path)
	}
	return nil
}

// formatAndOutput renders report in the selected format
func formatAndOutput(w io.Writer, report *formatter.Report, outputFile string) error {
	f, err := formatter.New(getOutputFormat(), useColor() && outputFile == "")
	if err != nil {
		return err
	}
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return handleOutputDestination(w, output, outputFile)
}

// handleOutputDestination writes output to file or w
func handleOutputDestination(w io.Writer, output []byte, outputFile string) error {
	if outputFile == "" {
		_, err := w.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", outputFile)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return fmt.Errorf("empty file path")
	}
	cleanPath := filepath.Clean(filePath)

	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(cleanPath, output, 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ReportError prints err for the terminal. Service errors get their
// category title and suggestions.
func ReportError(w io.Writer, err error) {
	apiErr, ok := api.AsError(err)
	if !ok {
		fmt.Fprintf(w, "%s Error: %v\n", emoji.GetEmoji("error"), err)
		return
	}

	fmt.Fprintf(w, "%s %s: %s\n", emoji.GetEmoji("error"), apiErr.Title(), apiErr.Message)
	for _, s := range apiErr.Suggestions() {
		fmt.Fprintf(w, "  %s %s\n", emoji.GetEmoji("help"), s)
	}
	if isVerbose() {
		fmt.Fprintf(w, "  %s\n", apiErr.Detail())
	}
	if apiErr.Kind == api.ErrKindNetwork {
		fmt.Fprintf(w, "  Service: %s\n", GetGlobalConfig().API.BaseURL)
	}
}
