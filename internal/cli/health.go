package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/formatter"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd.Context())
			defer cancel()

			client, err := newClient(newLogger("api"))
			if err != nil {
				return err
			}
			resp, err := client.Health(ctx)
			if err != nil {
				return err
			}

			output, err := formatter.FormatHealth(resp, client.BaseURL(), getOutputFormat(), useColor())
			if err != nil {
				return fmt.Errorf("failed to format health: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}
}
