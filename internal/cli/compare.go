package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/formatter"
)

func newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [query...]",
		Short: "Compare two or more localities",
		Long: `Compare localities side by side by flat rate, sales and units sold.

Examples:
  estateinsights compare Compare Wakad and Aundh
  estateinsights compare "Akurdi vs Ambegaon Budruk" -o csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("a comparison query is required")
			}

			ctx, cancel := requestContext(cmd.Context())
			defer cancel()

			client, err := newClient(newLogger("api"))
			if err != nil {
				return err
			}
			resp, err := client.Compare(ctx, query)
			if err != nil {
				return err
			}

			output, err := formatter.FormatComparison(resp, getOutputFormat(), useColor())
			if err != nil {
				return fmt.Errorf("failed to format comparison: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}
}
