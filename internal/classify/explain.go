package classify

import "github.com/ppiankov/casefile/internal/model"

// Explanation describes what a pillar means for the person bringing the matter
type Explanation struct {
	Pillar        model.Pillar `json:"pillar"`
	BurdenOfProof string       `json:"burdenOfProof"`
	Overview      string       `json:"overview"`
	NextSteps     []string     `json:"nextSteps"`
}

type pillarText struct {
	burden   string
	overview string
	steps    []string
}

var pillarTexts = map[model.Pillar]pillarText{
	model.PillarCriminal: {
		burden:   "Beyond a reasonable doubt, carried by the Crown.",
		overview: "Criminal matters are prosecuted by the state under the Criminal Code. The accused is presumed innocent.",
		steps: []string{
			"Contact duty counsel or Legal Aid Ontario.",
			"Write down what happened while it is fresh, with dates and times.",
			"Keep copies of any release documents and court dates.",
		},
	},
	model.PillarCivil: {
		burden:   "Balance of probabilities, carried by the claimant.",
		overview: "Civil matters are disputes between private parties, usually about money or property.",
		steps: []string{
			"Gather documents that show what was agreed and what went wrong.",
			"Calculate the amount you are claiming and how you arrived at it.",
			"Check the limitation period before it expires.",
		},
	},
	model.PillarAdministrative: {
		burden:   "Balance of probabilities, applied by the tribunal or decision-maker.",
		overview: "Administrative matters are decided by tribunals and boards under a specific statute.",
		steps: []string{
			"Identify the tribunal and the application form it requires.",
			"Note the filing deadline set by the governing statute.",
			"Organise your evidence in the order the tribunal expects.",
		},
	},
	model.PillarQuasiCriminal: {
		burden:   "Beyond a reasonable doubt for most provincial offences; some are strict liability.",
		overview: "Quasi-criminal matters are regulatory offences such as traffic tickets and by-law charges.",
		steps: []string{
			"Read the offence notice for your options and deadlines.",
			"Decide whether to pay, request a meeting, or request a trial.",
		},
	},
	model.PillarUnknown: {
		burden:   "Depends on the forum; this matter needs human review.",
		overview: "The description touches more than one area of law or none clearly.",
		steps: []string{
			"Describe the problem in more detail, including who is involved and what you want.",
			"Consider a consultation with a lawyer or licensed paralegal.",
		},
	},
}

var domainSteps = map[model.Domain][]string{
	model.DomainLandlordTenant: {
		"Find the Landlord and Tenant Board form that matches your issue.",
		"Collect your lease, rent receipts and written notices.",
	},
	model.DomainInsurance: {
		"Request the insurer's written reasons and a copy of your policy.",
		"Use the insurer's internal complaint process before escalating to FSRA.",
	},
	model.DomainCivilNegligence: {
		"Record the injury or loss with photos and medical or repair records.",
		"Send a written notice of claim to the responsible party.",
	},
	model.DomainCriminal: {
		"Do not discuss the facts with anyone other than your lawyer.",
	},
	model.DomainConsumer: {
		"Send a written demand for refund or repair under the Consumer Protection Act.",
		"File a complaint with Consumer Protection Ontario if the business does not respond.",
	},
	model.DomainEstate: {
		"Obtain a copy of the will and any probate certificate.",
		"Ask the estate trustee for an accounting in writing.",
	},
	model.DomainMunicipal: {
		"Give the municipality written notice of the damage within 10 days.",
		"Photograph the site and keep repair estimates.",
	},
	model.DomainMalpractice: {
		"Request your complete file from the lawyer in writing.",
		"Consider a complaint to the Law Society of Ontario.",
	},
	model.DomainHumanRights: {
		"File with the Human Rights Tribunal of Ontario within one year of the last incident.",
	},
	model.DomainEmployment: {
		"Keep your employment contract, pay stubs and termination letter.",
	},
}

// PillarExplainer returns static explanations for pillars
type PillarExplainer struct{}

// NewPillarExplainer creates a new pillar explainer
func NewPillarExplainer() *PillarExplainer {
	return &PillarExplainer{}
}

// Explain describes a pillar. Domain steps are appended when a domain is given.
func (e *PillarExplainer) Explain(pillar model.Pillar, domain model.Domain) Explanation {
	text, ok := pillarTexts[pillar]
	if !ok {
		pillar = model.PillarUnknown
		text = pillarTexts[model.PillarUnknown]
	}

	steps := make([]string, 0, len(text.steps)+len(domainSteps[domain]))
	steps = append(steps, text.steps...)
	if domain != "" {
		steps = append(steps, domainSteps[domain]...)
	}

	return Explanation{
		Pillar:        pillar,
		BurdenOfProof: text.burden,
		Overview:      text.overview,
		NextSteps:     steps,
	}
}
