package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration as YAML after defaults, the config file and
environment overrides have been applied. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		masked := *cfg
		masked.TMDB.APIKey = maskSecret(masked.TMDB.APIKey)
		masked.Store.Redis.Password = maskSecret(masked.Store.Redis.Password)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(masked); err != nil {
			return err
		}
		return enc.Close()
	},
}

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the catalog API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Testing connection to %s...\n", cfg.TMDB.APIURL)
		if err := app.catalog.Ping(cmd.Context()); err != nil {
			return friendlyError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Connection successful!")
		return nil
	},
}

// filtersCmd represents the filters command
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List named filters from the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := app.filters.ListFilters()
		return render(cmd.OutOrStdout(), cfg.Filters, func(w io.Writer) {
			if len(names) == 0 {
				fmt.Fprintln(w, "No named filters configured.")
				return
			}
			for _, name := range names {
				f, _ := app.filters.GetFilter(name)
				fmt.Fprintf(w, "%-20s %s\n", name, f.Expression())
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd, pingCmd, filtersCmd)
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
