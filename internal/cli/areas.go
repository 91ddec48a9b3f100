package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/formatter"
)

func newAreasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "areas",
		Short: "List the localities the service can analyze",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd.Context())
			defer cancel()

			client, err := newClient(newLogger("api"))
			if err != nil {
				return err
			}
			resp, err := client.ListAreas(ctx)
			if err != nil {
				return err
			}

			output, err := formatter.FormatAreas(resp, getOutputFormat(), useColor())
			if err != nil {
				return fmt.Errorf("failed to format areas: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}
}
