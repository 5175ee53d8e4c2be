package cli

import (
	"fmt"

	"github.com/ppiankov/casefile/internal/pipeline"
	"github.com/spf13/cobra"
)

var sourceName string

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <matter-id> <url>",
	Short: "Fetch an official web page as evidence",
	Long: `Fetch downloads an official page (a government notice, a statute page)
and indexes it as official-link evidence. Requests are rate limited per host
and respect robots.txt. Links on the page to CanLII, e-Laws or Justice Laws
are listed so you can add them as sources.

Example:
  casefile fetch 3f2a... https://www.ontario.ca/page/renting-ontario-your-rights`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)
			res, err := a.pipeline.FetchEvidence(cmd.Context(), s, args[1], actor)
			if err != nil {
				return err
			}
			if !res.OK {
				for _, e := range res.Errors {
					out.fail("%s", e)
				}
				return nil
			}
			out.success("%s indexed from %s", res.Item.Filename, res.Item.SourceURL)
			if len(res.SuggestedSources) > 0 {
				out.blank()
				out.title("Linked legal sources")
				for _, src := range res.SuggestedSources {
					out.subtle("  %s  %s", src.Name, src.URL)
				}
				out.subtle("Add one with: casefile source add %s <url>", s.ID)
			}
			out.blank()
			renderEvidence(out, res)
			return nil
		})
	},
}

// sourceCmd groups the source manifest commands
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the legal sources cited by a matter",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <matter-id> <url>",
	Short: "Add a legal source to the manifest",
	Long: `Add a CanLII decision, an e-Laws statute or a Justice Laws page to the
matter's source manifest. Drafts cite the highest-priority source.

Example:
  casefile source add 3f2a... https://www.ontario.ca/laws/statute/06r17 --name "Residential Tenancies Act"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			src, err := a.pipeline.AddSource(cmd.Context(), s, sourceName, args[1], actor)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout(), a.cfg).success("%s added (%s)", src.Name, src.Kind)
			return nil
		})
	},
}

var sourceCheckCmd = &cobra.Command{
	Use:   "check <matter-id>",
	Short: "Check that every source URL is still reachable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)
			results := a.pipeline.CheckSources(cmd.Context(), s)
			if len(results) == 0 {
				out.subtle("No sources in the manifest.")
				return nil
			}
			for _, r := range results {
				switch {
				case r.Dead && r.Error != "":
					out.fail("%s: %s", r.URL, r.Error)
				case r.Dead:
					out.fail("%s is gone (%d)", r.URL, r.StatusCode)
				case !r.Accessible:
					out.warn("%s could not be reached: %s", r.URL, r.Error)
				case r.Stale:
					out.warn("%s has not changed since %s", r.URL, r.LastModified.Format("2006-01-02"))
				case r.RedirectURL != "":
					out.warn("%s now redirects to %s", r.URL, r.RedirectURL)
				default:
					out.success("%s", r.URL)
				}
			}
			out.blank()
			out.field("Checked", fmt.Sprintf("%d sources", len(results)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(sourceCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceCheckCmd)

	sourceAddCmd.Flags().StringVar(&sourceName, "name", "", "display name (default: derived from the URL)")
}
