package draft

import "github.com/ppiankov/casefile/internal/model"

// DefaultDisclaimer is attached to every draft unless suppressed
const DefaultDisclaimer = "This document was prepared with a self-help tool. It is legal information, not legal advice. " +
	"Review every statement for accuracy and consider consulting a lawyer or licensed paralegal before filing or sending it."

var domainNotices = map[model.Domain]string{
	model.DomainCriminal:    "If you are charged with an offence, contact duty counsel or Legal Aid Ontario before taking any step.",
	model.DomainMalpractice: "Claims against a lawyer are subject to strict limitation periods; the Law Society of Ontario referral service can help you find independent counsel.",
	model.DomainHumanRights: "Applications to the Human Rights Tribunal of Ontario must generally be filed within one year of the last incident.",
}

// DisclaimerService supplies disclaimer text for a domain
type DisclaimerService interface {
	Disclaimer(domain model.Domain) string
}

// Disclaimers is the built-in disclaimer service
type Disclaimers struct {
	base string
}

// NewDisclaimers creates a disclaimer service. An empty base uses DefaultDisclaimer.
func NewDisclaimers(base string) *Disclaimers {
	if base == "" {
		base = DefaultDisclaimer
	}
	return &Disclaimers{base: base}
}

// Disclaimer returns the base text plus any domain notice
func (d *Disclaimers) Disclaimer(domain model.Domain) string {
	if notice, ok := domainNotices[domain]; ok {
		return d.base + " " + notice
	}
	return d.base
}
