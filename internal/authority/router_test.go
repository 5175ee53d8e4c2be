package authority

import (
	"testing"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := DefaultRegistry()
	require.NoError(t, err)
	return NewRouter(r, 0)
}

func ids(refs []model.AuthorityRef) []model.AuthorityID {
	out := make([]model.AuthorityID, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

func TestRouter_DecisionTable(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		in   RouteInput
		want model.AuthorityID
		desc string
	}{
		{RouteInput{Domain: model.DomainLandlordTenant, Jurisdiction: "Ontario"}, LandlordTenantBoard, "landlord tenant goes to LTB"},
		{RouteInput{Domain: model.DomainLandlordTenant, Jurisdiction: "Ontario", IsAppeal: true}, LandlordTenantBoard, "tribunal override beats appeal"},
		{RouteInput{Domain: model.DomainHumanRights, Jurisdiction: "Federal"}, HumanRightsTribunal, "human rights goes to HRTO"},
		{RouteInput{Domain: model.DomainInsurance, Jurisdiction: "Ontario", IsAppeal: true}, OntarioCourtOfAppeal, "ontario appeal"},
		{RouteInput{Domain: model.DomainInsurance, Jurisdiction: "Federal", IsAppeal: true}, FederalCourtOfAppeal, "federal appeal"},
		{RouteInput{Domain: model.DomainOther, Jurisdiction: "Ontario", IsAppeal: true, IsJudicialReview: true}, OntarioCourtOfAppeal, "appeal beats judicial review"},
		{RouteInput{Domain: model.DomainOther, Jurisdiction: "ontario", IsJudicialReview: true}, DivisionalCourt, "ontario judicial review"},
		{RouteInput{Domain: model.DomainOther, Jurisdiction: "Federal", IsJudicialReview: true}, FederalCourt, "federal judicial review"},
		{RouteInput{Domain: model.DomainCivilNegligence, Jurisdiction: "Ontario", DisputeAmount: floatPtr(500)}, SuperiorCourt, "ontario default regardless of amount"},
		{RouteInput{Domain: model.DomainEmployment, Jurisdiction: "Federal"}, FederalCourt, "non-ontario default"},
		{RouteInput{}, FederalCourt, "empty input"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			fm, err := router.Route(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fm.PrimaryForum.ID)
			assert.Equal(t, tt.in.Domain, fm.Domain)
		})
	}
}

func TestRouter_RouteIsPure(t *testing.T) {
	router := newTestRouter(t)
	in := RouteInput{Domain: model.DomainConsumer, Jurisdiction: "Ontario", DisputeAmount: floatPtr(1200)}

	first, err := router.Route(in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := router.Route(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRouter_Alternatives(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		in   RouteInput
		want []model.AuthorityID
		desc string
	}{
		{RouteInput{Domain: model.DomainLandlordTenant, Jurisdiction: "Ontario"}, []model.AuthorityID{DivisionalCourt}, "LTB falls back to DivCt"},
		{RouteInput{Domain: model.DomainHumanRights, Jurisdiction: "Ontario"}, []model.AuthorityID{DivisionalCourt}, "HRTO falls back to DivCt"},
		{RouteInput{Domain: model.DomainOther, Jurisdiction: "Federal"}, []model.AuthorityID{DivisionalCourt}, "FC falls back to DivCt"},
		{RouteInput{Domain: model.DomainMalpractice, Jurisdiction: "Ontario"}, []model.AuthorityID{LawSociety}, "malpractice adds law society"},
		{RouteInput{Domain: model.DomainConsumer, Jurisdiction: "Ontario", DisputeAmount: floatPtr(900)}, []model.AuthorityID{ConsumerProtection, SmallClaimsCourt}, "consumer under limit"},
		{RouteInput{Domain: model.DomainCivilNegligence, Jurisdiction: "Ontario", DisputeAmount: floatPtr(90000)}, []model.AuthorityID{}, "negligence over limit"},
		{RouteInput{Domain: model.DomainOther, Jurisdiction: "Ontario", IsJudicialReview: true}, []model.AuthorityID{}, "DivCt primary has no self alternative"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			fm, err := router.Route(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(fm.Alternatives))
		})
	}
}

func TestRouter_Escalation(t *testing.T) {
	router := newTestRouter(t)

	fm, err := router.Route(RouteInput{Domain: model.DomainLandlordTenant, Jurisdiction: "Ontario"})
	require.NoError(t, err)
	assert.Equal(t, []model.AuthorityID{DivisionalCourt}, ids(fm.Escalation))
}

func TestRouter_MissingAuthorityIsFatal(t *testing.T) {
	registry := NewRegistry([]model.Authority{
		{ID: FederalCourt, EscalationRoutes: []model.AuthorityID{FederalCourtOfAppeal}},
		{ID: DivisionalCourt},
	})
	router := NewRouter(registry, 0)

	_, err := router.Route(RouteInput{Domain: model.DomainLandlordTenant, Jurisdiction: "Ontario"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, LandlordTenantBoard, cfgErr.ID)

	// Primary resolves but its escalation route does not
	_, err = router.Route(RouteInput{Jurisdiction: "Federal"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, FederalCourtOfAppeal, cfgErr.ID)
}

func TestRouter_Describe(t *testing.T) {
	router := newTestRouter(t)
	assert.Equal(t, "ontario default", router.Describe(RouteInput{Jurisdiction: "Ontario"}))
	assert.Equal(t, "federal default", router.Describe(RouteInput{}))
}

func floatPtr(f float64) *float64 { return &f }
