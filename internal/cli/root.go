package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/config"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/logger"
	"github.com/yildizm/EstateInsights/internal/session"
	"github.com/yildizm/EstateInsights/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	serverURL string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "estateinsights",
		Short: "Real estate locality analysis from the terminal",
		Long: `EstateInsights queries a real estate analysis service with plain-language
questions such as "Analyze Wakad" and shows price and sales trends, a
searchable data table and AI-written summaries.

Run without a query to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			// config subcommands load their own file
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			return loadGlobalConfig(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv, prompt)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "analysis service base URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newAreasCommand())
	rootCmd.AddCommand(newSummaryCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newCompareCommand())
	rootCmd.AddCommand(newHealthCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "EstateInsights %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func loadGlobalConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serverURL != "" {
		cfg.API.BaseURL = serverURL
	}
	if !cmd.Flag("verbose").Changed && cfg.Output.Verbose {
		verbose = true
	}
	if !ui.SetThemeByName(cfg.Output.Theme) {
		return fmt.Errorf("unknown theme %q", cfg.Output.Theme)
	}
	globalConfig = cfg
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	return GetGlobalConfig().Output.DefaultFormat
}

// useColor resolves --no-color, NO_COLOR and output.color_mode
func useColor() bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

func isInteractiveTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// newClient builds the analysis client from the loaded configuration
func newClient(log *logger.Logger) (*api.Client, error) {
	cfg := GetGlobalConfig()
	client, err := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	return client, nil
}

func newController(svc session.Service, log *logger.Logger) *session.Controller {
	cfg := GetGlobalConfig()
	return session.New(svc,
		session.WithRowsPerPage(cfg.Table.RowsPerPage),
		session.WithLocale(cfg.LocaleTag()),
		session.WithLogger(log),
	)
}
