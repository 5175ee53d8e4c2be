package domain

import (
	"context"
	"regexp"

	"github.com/ppiankov/casefile/internal/model"
)

var lawyerPattern = regexp.MustCompile(`(?i:lawyer|paralegal|solicitor|attorney)(?:,|\s+named|\s+is|:)?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)

// MalpracticeModule drafts file requests and Law Society complaints
type MalpracticeModule struct {
	deps Deps
}

// NewMalpracticeModule creates the legal malpractice module
func NewMalpracticeModule(deps Deps) *MalpracticeModule {
	return &MalpracticeModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *MalpracticeModule) Domain() model.Domain { return model.DomainMalpractice }

// Generate drafts the client file request, the Law Society complaint and a claim summary
func (m *MalpracticeModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *MalpracticeModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "lawyerName", lawyerPattern, "[Lawyer Name]")
	drafts, warnings := draftTemplates(m.deps, in, vars, []string{"chronology", "malpractice-file-request", "malpractice-lso-complaint", "malpractice-claim-summary"})
	return drafts, vars, warnings
}
