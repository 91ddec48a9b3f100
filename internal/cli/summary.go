package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/emoji"
)

func newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [query...]",
		Short: "Analyze a locality and print only the AI summary",
		Long: `Run an analysis, then ask the service for a narrative summary of the
computed metrics.

Examples:
  estateinsights summary Analyze Wakad
  estateinsights summary "Analyze Aundh" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSummary,
	}
}

type summaryOutput struct {
	Query     string `json:"query"`
	Area      string `json:"area"`
	AISummary string `json:"aiSummary"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	ctx, cancel := requestContext(cmd.Context())
	defer cancel()

	ctrl, res, err := runQuery(ctx, query)
	if err != nil {
		return err
	}
	text, err := ctrl.Summarize(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(getOutputFormat()) {
	case "json":
		data, err := json.MarshalIndent(summaryOutput{Query: query, Area: res.Response.Area, AISummary: text}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "markdown", "md":
		_, err = fmt.Fprintf(out, "# AI Summary: %s\n\n%s\n", res.Response.Area, text)
		return err
	default:
		_, err = fmt.Fprintf(out, "%s AI Summary: %s\n\n%s\n", emoji.GetEmoji("sparkles"), res.Response.Area, text)
		return err
	}
}
