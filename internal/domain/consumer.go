package domain

import (
	"context"
	"regexp"

	"github.com/ppiankov/casefile/internal/model"
)

var businessPattern = regexp.MustCompile(`(?i:bought from|purchased from|contract with|business|company|store|dealer|retailer)(?:\s+is|:|,)?\s+([A-Z][A-Za-z0-9&'-]*(?:\s+[A-Z][A-Za-z0-9&'.-]*)*)`)

// ConsumerModule drafts consumer protection requests and complaints
type ConsumerModule struct {
	deps Deps
}

// NewConsumerModule creates the consumer protection module
func NewConsumerModule(deps Deps) *ConsumerModule {
	return &ConsumerModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *ConsumerModule) Domain() model.Domain { return model.DomainConsumer }

// Generate drafts the payment request and the Consumer Protection Ontario complaint
func (m *ConsumerModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *ConsumerModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "businessName", businessPattern, vars["respondentName"])
	drafts, warnings := draftTemplates(m.deps, in, vars, []string{"chronology", "consumer-payment-request", "consumer-cpo-complaint"})
	return drafts, vars, warnings
}
