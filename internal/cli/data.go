package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/casefile/internal/cache"
	"github.com/ppiankov/casefile/internal/lifecycle"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	ageRecipients []string
	exportOut     string
	deleteReason  string
	deleteHold    bool
	holdOn        bool
	holdOff       bool
	holdReason    string
	retentionDays int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <matter-id>",
	Short: "Export everything held about a matter",
	Long: `Export writes the matter's classification, evidence index, retention
policy and audit log as JSON, optionally zstd-compressed and encrypted to
one or more age recipients.

Example:
  casefile export 3f2a... --out matter.json
  casefile export 3f2a... --format zstd --age-recipient age1... --out matter.json.zst.age`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := lifecycle.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		if exportOut == "" {
			return errors.New("--out is required")
		}
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			data, err := a.pipeline.ExportData(cmd.Context(), s, pipeline.ExportRequest{
				Format:     format,
				Recipients: ageRecipients,
				Actor:      actor,
			})
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(exportOut), 0o750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(exportOut, data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			newPrinter(cmd.OutOrStdout(), a.cfg).success("Exported %d bytes to %s", len(data), exportOut)
			return nil
		})
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <matter-id>",
	Short: "Request deletion of a matter's data",
	Long: `Delete purges the matter's classification and evidence unless the matter
or the request is under legal hold. The audit log and retention policy are
kept as the record of the deletion.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)
			res, err := a.pipeline.DeleteData(cmd.Context(), s, pipeline.DeleteRequest{
				Actor:     actor,
				Reason:    deleteReason,
				LegalHold: deleteHold,
			})
			if err != nil {
				return err
			}
			if res.Status == model.DeletionBlocked {
				out.warn("Deletion blocked: %s", res.Reason)
				return nil
			}
			out.success("Matter data deleted")
			return nil
		})
	},
}

// holdCmd represents the hold command
var holdCmd = &cobra.Command{
	Use:   "hold <matter-id>",
	Short: "Place or lift a legal hold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if holdOn == holdOff {
			return errors.New("pass exactly one of --on or --off")
		}
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			if err := a.pipeline.SetLegalHold(cmd.Context(), s, holdOn, holdReason, actor); err != nil {
				return err
			}
			state := "lifted"
			if holdOn {
				state = "placed"
			}
			newPrinter(cmd.OutOrStdout(), a.cfg).success("Legal hold %s", state)
			return nil
		})
	},
}

// retentionCmd represents the retention command
var retentionCmd = &cobra.Command{
	Use:   "retention <matter-id>",
	Short: "Change how long a matter's data is kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			if err := a.pipeline.SetRetention(cmd.Context(), s, retentionDays, actor); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout(), a.cfg).success("Retention set to %d days", retentionDays)
			return nil
		})
	},
}

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <matter-id>",
	Short: "List a matter's audit log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMatter(cmd.Context(), args[0], func(a *app, s *pipeline.Session) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)
			events, err := s.AuditLog(cmd.Context())
			if err != nil {
				return err
			}
			out.title(fmt.Sprintf("Audit log for %s", s.ID))
			for _, e := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-11s %-30s %-8s %s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Category, e.Type, e.Actor, e.Message)
			}
			policy := s.Lifecycle().Policy()
			out.blank()
			out.field("Retention", fmt.Sprintf("%d days", policy.Days))
			out.field("Legal hold", policy.LegalHold)
			return nil
		})
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		keys, err := a.store.Keys()
		if err != nil {
			return err
		}
		out := newPrinter(cmd.OutOrStdout(), a.cfg)
		if len(keys) == 0 {
			out.subtle("No matters stored in %s", a.cfg.Store.Dir)
			return nil
		}
		for _, key := range keys {
			id, ok := cache.MatterID(key)
			if !ok {
				continue
			}
			s, err := a.load(cmd.Context(), id)
			if err != nil {
				out.fail("%s: %v", id, err)
				continue
			}
			domain := "unclassified"
			if s.Classification != nil {
				domain = string(s.Classification.Domain)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-24s %3d items  %s\n",
				s.ID, domain, len(s.Index().Items), s.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(holdCmd)
	rootCmd.AddCommand(retentionCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(listCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", string(lifecycle.FormatJSON), "json or zstd")
	exportCmd.Flags().StringSliceVar(&ageRecipients, "age-recipient", nil, "encrypt to this age recipient (repeatable)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file")

	deleteCmd.Flags().StringVar(&deleteReason, "reason", "", "why the data should be deleted")
	deleteCmd.Flags().BoolVar(&deleteHold, "legal-hold", false, "mark this request as subject to a legal hold")

	holdCmd.Flags().BoolVar(&holdOn, "on", false, "place a legal hold")
	holdCmd.Flags().BoolVar(&holdOff, "off", false, "lift the legal hold")
	holdCmd.Flags().StringVar(&holdReason, "reason", "", "reason for the hold")

	retentionCmd.Flags().IntVar(&retentionDays, "days", 0, "retention period in days")
	_ = retentionCmd.MarkFlagRequired("days")
}

// readTextFile reads a small text file, trimming trailing whitespace
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), " \t\r\n"), nil
}
