package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pipeline"
	"github.com/ppiankov/casefile/internal/worker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	fromFile     string
	provenance   string
	evidenceDate string
	summary      string
	tags         []string
	declaredMIME string
	concurrency  int
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <matter-id> [file...]",
	Short: "Add evidence files to a matter",
	Long: `Upload reads, validates and indexes evidence files:
- Files are read and checked in parallel, then indexed in the order given
- Each file is hashed, dated, summarised and scored
- The timeline, gaps and missing-evidence alerts are recomputed
- Text evidence is previewed with personal information masked

Example:
  casefile upload 3f2a... notice.eml photo.png
  casefile upload 3f2a... --from-file evidence.txt --concurrency 8`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: checkProvenance,
	RunE:    runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&fromFile, "from-file", "", "read file paths from this list (one per line)")
	uploadCmd.Flags().StringVar(&provenance, "provenance", string(model.ProvenanceUser), "user-provided, official-api or official-link")
	uploadCmd.Flags().StringVar(&evidenceDate, "date", "", "date of the evidence, overrides any date found in the file")
	uploadCmd.Flags().StringVar(&summary, "summary", "", "one-line summary")
	uploadCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	uploadCmd.Flags().StringVar(&declaredMIME, "mime", "", "declared MIME type (default: from extension)")
	uploadCmd.Flags().IntVar(&concurrency, "concurrency", 0, "files read in parallel (default: concurrency.workers)")
}

func checkProvenance(_ *cobra.Command, _ []string) error {
	if !model.Provenance(provenance).Valid() {
		return fmt.Errorf("invalid --provenance %q: use %s, %s or %s",
			provenance, model.ProvenanceUser, model.ProvenanceOfficialAPI, model.ProvenanceOfficialLink)
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	matterID, paths := args[0], args[1:]
	if fromFile != "" {
		listed, err := worker.ReadPathsFromFile(fromFile)
		if err != nil {
			return err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files to upload")
	}

	ctx := cmd.Context()
	return withMatter(ctx, matterID, func(a *app, s *pipeline.Session) error {
		out := newPrinter(cmd.OutOrStdout(), a.cfg)

		workers := concurrency
		if workers <= 0 {
			workers = a.cfg.Concurrency.Workers
		}
		preparer := worker.NewBatchPreparer(workers)

		bar := newProgressBar(cmd.ErrOrStderr(), len(paths), "Reading evidence")
		preparer.OnProgress(func(int, int) {
			if err := bar.Add(1); err != nil {
				slog.Warn("failed to update progress bar", "error", err)
			}
		})
		prepared := preparer.Prepare(ctx, paths, declaredMIME)
		_ = bar.Finish()

		var (
			last     *pipeline.UploadResult
			accepted int
		)
		for _, f := range prepared {
			if f.Error != nil {
				out.fail("%s: %v", f.Path, f.Error)
				continue
			}
			res, err := a.pipeline.UploadEvidence(ctx, s, pipeline.UploadRequest{
				Filename:   f.Filename,
				MIME:       f.MIME,
				Content:    f.Content,
				Provenance: model.Provenance(provenance),
				Options: evidence.AddOptions{
					Date:    evidenceDate,
					Summary: summary,
					Tags:    tags,
				},
				Actor: actor,
			})
			if err != nil {
				return err
			}
			if !res.OK {
				for _, e := range res.Errors {
					out.fail("%s: %s", f.Filename, e)
				}
				continue
			}
			accepted++
			out.success("%s indexed (credibility %.2f)", res.Item.Filename, res.Item.CredibilityScore)
			for _, dup := range res.Duplicates {
				out.warn("%s has the same content as %s", res.Item.Filename, dup.Filename)
			}
			if res.RedactedPreview != "" && a.cfg.Output.Verbose {
				out.subtle("  %s", res.RedactedPreview)
			}
			last = res
		}

		out.blank()
		out.field("Accepted", fmt.Sprintf("%d of %d", accepted, len(paths)))
		if last != nil {
			renderEvidence(out, last)
		}
		return nil
	})
}

func newProgressBar(w io.Writer, total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+desc+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func renderEvidence(p *printer, res *pipeline.UploadResult) {
	p.field("Items", len(res.Index.Items))
	p.field("Dated", len(res.Timeline))
	p.blank()

	if len(res.Timeline) > 0 {
		p.title("Timeline")
		for _, e := range res.Timeline {
			label := e.Summary
			if label == "" {
				label = e.Filename
			}
			p.subtle("  %s  %s", e.Date, label)
		}
		p.blank()
	}

	if len(res.Gaps) > 0 {
		p.title("Gaps")
		for _, g := range res.Gaps {
			msg := fmt.Sprintf("%s to %s: %d days without evidence", g.From, g.To, g.DurationDays)
			switch g.RiskLevel {
			case model.RiskHigh:
				p.fail("%s", msg)
			case model.RiskMedium:
				p.warn("%s", msg)
			default:
				p.subtle("  %s", msg)
			}
		}
		p.blank()
	}

	if len(res.Alerts) > 0 {
		p.title("Alerts")
		for _, alert := range res.Alerts {
			p.severityLine(alert.Severity, alert.Message)
		}
	}
}
