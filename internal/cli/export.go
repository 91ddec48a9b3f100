package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/table"
)

var (
	exportDir    string
	exportRemote bool
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [query...]",
		Short: "Export the filtered data table to CSV",
		Long: `Analyze a locality and write the matched table rows, in the current
sort order, to real-estate-data-<timestamp>.csv.

With --remote the service's own CSV of the raw records is downloaded
instead and the table flags are ignored.

Examples:
  estateinsights export Analyze Wakad
  estateinsights export "Analyze Aundh" --search 2022 --sort Year --dir ./exports
  estateinsights export "Analyze Wakad" --remote`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExport,
	}

	addViewFlags(cmd)
	cmd.Flags().StringVar(&exportDir, "dir", "", "directory to write into (default from config)")
	cmd.Flags().BoolVar(&exportRemote, "remote", false, "download the service-rendered CSV")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	dir := exportDir
	if dir == "" {
		dir = GetGlobalConfig().Output.ExportDir
	}

	ctx, cancel := requestContext(cmd.Context())
	defer cancel()

	var path string
	if exportRemote {
		client, err := newClient(newLogger("api"))
		if err != nil {
			return err
		}
		dl, err := client.Download(ctx, query)
		if err != nil {
			return err
		}
		// never trust a server-supplied path
		path = filepath.Join(dir, filepath.Base(dl.Filename))
		if err := writeOutputBytesToFile(dl.Data, path); err != nil {
			return fmt.Errorf("failed to write download: %w", err)
		}
	} else {
		_, res, err := runQuery(ctx, query)
		if err != nil {
			return err
		}
		opts := viewOptions{search: analyzeSearch, sort: analyzeSort, desc: analyzeDesc}
		if err := opts.apply(res.Table); err != nil {
			return err
		}
		path, err = table.WriteExport(dir, res.Table.Export(), time.Now())
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Exported to %s\n", emoji.GetEmoji("download"), path)
	return nil
}
