package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	domainHint       string
	jurisdictionHint string
	description      string
	claimantType     string
	respondentType   string
	disputeAmount    float64
	urgencyHint      string
	keyDates         []string
	isAppeal         bool
	isJudicialReview bool
	intakeRole       string
)

// intakeCmd represents the intake command
var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Open a new matter and classify it",
	Long: `Intake classifies a legal problem from a few hints and a description:
- Area of law and jurisdiction
- The forum that hears it, with alternatives and escalation
- Its legal character (criminal, civil, administrative)
- Whether it is within document preparation support
- Limitation and notice deadlines

Example:
  casefile intake --domain-hint "landlord tenant" --jurisdiction-hint Ontario
  casefile intake --domain-hint insurance --amount 4500 --key-date 2025-01-10 \
    --description "My claim for water damage was denied"`,
	Args: cobra.NoArgs,
	RunE: runIntake,
}

func init() {
	rootCmd.AddCommand(intakeCmd)

	intakeCmd.Flags().StringVar(&domainHint, "domain-hint", "", "area of law in your own words")
	intakeCmd.Flags().StringVar(&jurisdictionHint, "jurisdiction-hint", "", "province or federal")
	intakeCmd.Flags().StringVar(&description, "description", "", "what happened")
	intakeCmd.Flags().StringVar(&claimantType, "claimant-type", "", "who you are (individual, tenant, landlord, ...)")
	intakeCmd.Flags().StringVar(&respondentType, "respondent-type", "", "who the other side is (business, insurer, ...)")
	intakeCmd.Flags().Float64Var(&disputeAmount, "amount", 0, "amount in dispute")
	intakeCmd.Flags().StringVar(&urgencyHint, "urgency", "", "low, medium or high")
	intakeCmd.Flags().StringSliceVar(&keyDates, "key-date", nil, "important date (repeatable)")
	intakeCmd.Flags().BoolVar(&isAppeal, "appeal", false, "the matter is an appeal")
	intakeCmd.Flags().BoolVar(&isJudicialReview, "judicial-review", false, "the matter is a judicial review")
	intakeCmd.Flags().StringVar(&intakeRole, "role", "", "criminal matters: accused, victim or complainant")
}

func runIntake(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := model.ClassificationInput{
		DomainHint:       domainHint,
		JurisdictionHint: jurisdictionHint,
		ClaimantType:     claimantType,
		RespondentType:   respondentType,
		UrgencyHint:      urgencyHint,
		KeyDates:         keyDates,
		Description:      description,
	}
	if cmd.Flags().Changed("amount") {
		amount := disputeAmount
		in.DisputeAmount = &amount
	}

	s := a.pipeline.NewSession()
	res, err := a.pipeline.Intake(ctx, s, pipeline.IntakeRequest{
		Input:            in,
		IsAppeal:         isAppeal,
		IsJudicialReview: isJudicialReview,
		Role:             intakeRole,
		Actor:            actor,
	})
	if err != nil {
		return fmt.Errorf("intake failed: %w", err)
	}
	if err := a.save(ctx, s); err != nil {
		return err
	}

	renderIntake(newPrinter(cmd.OutOrStdout(), a.cfg), s.ID, res)
	return nil
}

func renderIntake(p *printer, matterID string, res *pipeline.IntakeResult) {
	c := res.Classification

	p.title("Matter " + matterID)
	p.field("Domain", c.Domain)
	p.field("Jurisdiction", c.Jurisdiction)
	p.field("Urgency", c.Urgency)
	p.field("Pillar", res.Pillar)
	p.field("Forum", fmt.Sprintf("%s (%s)", res.ForumMap.PrimaryForum.Name, res.ForumMap.PrimaryForum.ID))
	if len(res.ForumMap.Alternatives) > 0 {
		names := make([]string, 0, len(res.ForumMap.Alternatives))
		for _, alt := range res.ForumMap.Alternatives {
			names = append(names, alt.Name)
		}
		p.field("Alternatives", strings.Join(names, ", "))
	}
	p.field("Support", fmt.Sprintf("tier %d, %s", res.UPL.Tier, res.UPL.Label))
	p.blank()

	p.box(res.Explanation.Overview, "Burden of proof: "+res.Explanation.BurdenOfProof)
	p.blank()

	if len(c.Journey) > 0 {
		p.title("Next steps")
		for i, step := range c.Journey {
			p.subtle("  %d. %s", i+1, step)
		}
		p.blank()
	}

	if len(res.Deadlines) > 0 {
		p.title("Deadlines")
		for _, d := range res.Deadlines {
			p.severityLine(d.Severity, d.Message)
		}
		p.blank()
	}

	for _, reason := range res.UPL.Reasons {
		p.warn("%s", reason)
	}
	p.subtle("%s", res.UPL.Disclaimer)
}
