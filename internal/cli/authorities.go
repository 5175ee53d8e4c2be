package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// authoritiesCmd represents the authorities command
var authoritiesCmd = &cobra.Command{
	Use:   "authorities",
	Short: "List the courts and tribunals matters are routed to",
	Long: `List every authority in the registry, including any merged from
packaging.authority_file. Entries past their update cadence are flagged so
the operator can re-check names, forms and escalation routes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		out := newPrinter(cmd.OutOrStdout(), a.cfg)
		registry := a.pipeline.Authorities()
		now := time.Now().UTC()

		out.title("Authorities")
		for _, auth := range registry.All() {
			line := fmt.Sprintf("%-10s %-52s %-8s v%d", auth.ID, auth.Name, auth.Jurisdiction, auth.Version)
			stale, err := registry.NeedsUpdate(auth.ID, now)
			if err != nil {
				return err
			}
			if stale {
				out.warn("%s  (due for review since %s)", line,
					auth.UpdatedAt.AddDate(0, 0, auth.UpdateCadenceDays).Format("2006-01-02"))
				continue
			}
			out.subtle("  %s", line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authoritiesCmd)
}
