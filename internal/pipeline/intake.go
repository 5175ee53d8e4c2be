package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/casefile/internal/authority"
	"github.com/ppiankov/casefile/internal/classify"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/upl"
)

// IntakeRequest is the free text and flags captured when a matter is opened
type IntakeRequest struct {
	Input            model.ClassificationInput
	IsAppeal         bool
	IsJudicialReview bool
	Role             string // Criminal matters: accused, victim or complainant
	Actor            string
}

// IntakeResult is what intake tells the person about their matter
type IntakeResult struct {
	Classification model.MatterClassification `json:"classification"`
	ForumMap       model.ForumMap             `json:"forumMap"`
	Pillar         model.Pillar               `json:"pillar"`
	Explanation    classify.Explanation       `json:"explanation"`
	UPL            model.UPLAssessment        `json:"upl"`
	Deadlines      []model.DeadlineAlert      `json:"deadlines,omitempty"`
}

// Intake classifies the matter, routes it to a forum and attaches the
// pillar, journey, UPL tier and deadline alerts. Running it again
// reclassifies the same session.
func (p *Pipeline) Intake(ctx context.Context, s *Session, req IntakeRequest) (*IntakeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := p.classifier.Classify(req.Input)
	c.ID = s.ID

	text := strings.Join([]string{req.Input.DomainHint, req.Input.Description}, " ")
	pillar := p.pillars.Classify(text)
	c.Pillar = &pillar
	c.PillarMatches = p.pillars.DetectAllPillars(text)

	explanation := p.explainer.Explain(pillar, c.Domain)
	c.Journey = explanation.NextSteps

	forumMap, err := p.router.Route(routeInput(c, req.IsAppeal, req.IsJudicialReview))
	if err != nil {
		return nil, fmt.Errorf("route %s matter: %w", c.Domain, err)
	}

	assessment := upl.Assess(upl.Input{
		Classification:   c,
		Role:             req.Role,
		IsAppeal:         req.IsAppeal,
		IsJudicialReview: req.IsJudicialReview,
		SmallClaimsLimit: p.config.Packaging.SmallClaimsLimit,
	})
	c.UPL = &assessment

	deadlines := p.assessor.Assess(c, p.now())
	c.Urgency = deadlines.Urgency

	s.Input = req.Input
	s.Classification = &c
	s.IsAppeal = req.IsAppeal
	s.IsJudicialReview = req.IsJudicialReview
	s.Role = req.Role

	_, err = s.audit.Record(ctx, model.AuditIntake, req.Actor, fmt.Sprintf("matter classified as %s", c.Domain), map[string]any{
		"domain":       string(c.Domain),
		"jurisdiction": c.Jurisdiction,
		"forum":        string(forumMap.PrimaryForum.ID),
		"pillar":       string(pillar),
		"uplTier":      assessment.Tier,
		"urgency":      string(c.Urgency),
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RecordIntake(string(c.Domain))

	p.logger.Info("matter classified",
		"matter", s.ID,
		"domain", c.Domain,
		"jurisdiction", c.Jurisdiction,
		"forum", forumMap.PrimaryForum.ID,
		"upl_tier", assessment.Tier,
	)

	return &IntakeResult{
		Classification: c,
		ForumMap:       forumMap,
		Pillar:         pillar,
		Explanation:    explanation,
		UPL:            assessment,
		Deadlines:      deadlines.Alerts,
	}, nil
}

func routeInput(c model.MatterClassification, appeal, judicialReview bool) authority.RouteInput {
	return authority.RouteInput{
		Domain:           c.Domain,
		Jurisdiction:     c.Jurisdiction,
		IsAppeal:         appeal,
		IsJudicialReview: judicialReview,
		DisputeAmount:    c.DisputeAmount,
	}
}
