package cli

import (
	"fmt"

	"github.com/ppiankov/casefile/internal/pack"
	"github.com/ppiankov/casefile/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outDir      string
	role        string
	notes       string
	notesFile   string
	confirmAll  bool
	formsFile   string
	packageName string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <matter-id>",
	Short: "Draft the matter's documents and write the package",
	Long: `Generate drafts the documents for the matter's area of law and writes a
package for review:
- drafts/ with one Markdown file per document
- the forum map, timeline and missing-evidence report
- evidence and source manifests
- a readiness report with transparent signals

Every section starts unconfirmed; --confirm-all marks them reviewed.

Example:
  casefile generate 3f2a... --out ./package --notes "My name is Alex Tran..."
  casefile generate 3f2a... --role victim --forms forms.jsonc`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&outDir, "out", ".", "directory the package is written under")
	generateCmd.Flags().StringVar(&role, "role", "", "criminal matters: accused, victim or complainant")
	generateCmd.Flags().StringVar(&notes, "notes", "", "your account of what happened")
	generateCmd.Flags().StringVar(&notesFile, "notes-file", "", "read your account from a file")
	generateCmd.Flags().BoolVar(&confirmAll, "confirm-all", false, "mark every section as reviewed")
	generateCmd.Flags().StringVar(&formsFile, "forms", "", "form mapping file (JSON with comments)")
	generateCmd.Flags().StringVar(&packageName, "name", "", "package folder name")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	account := notes
	if notesFile != "" {
		data, err := readTextFile(notesFile)
		if err != nil {
			return err
		}
		account = data
	}

	var forms []pack.FormMapping
	if formsFile != "" {
		var err error
		if forms, err = pack.LoadFormMappings(formsFile); err != nil {
			return err
		}
	}

	return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
		out := newPrinter(cmd.OutOrStdout(), a.cfg)

		res, err := a.pipeline.GenerateDocuments(cmd.Context(), s, pipeline.GenerateRequest{
			Notes:        account,
			Role:         role,
			ConfirmAll:   confirmAll,
			FormMappings: forms,
			PackageName:  packageName,
			Actor:        actor,
		})
		if err != nil {
			return err
		}

		root, err := pipeline.WritePackage(res.Package, outDir)
		if err != nil {
			return err
		}

		out.success("Package written to %s", root)
		out.blank()
		out.field("Forum", res.ForumMap.PrimaryForum.Name)
		out.field("Documents", len(res.Drafts))
		out.field("Files", len(res.Package.Files))
		out.field("Readiness", fmt.Sprintf("%d/100 (%s confidence)", res.Readiness.Index, res.Readiness.Confidence))
		out.blank()

		for _, d := range res.Drafts {
			out.subtle("  %s", d.Title)
		}
		if len(res.Warnings) > 0 {
			out.blank()
			out.title("Warnings")
			for _, w := range res.Warnings {
				out.warn("%s", w)
			}
		}
		return nil
	})
}
