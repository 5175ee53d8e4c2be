package classify

import (
	"regexp"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
)

// pillarOrder is the fixed order pillars are reported in
var pillarOrder = []model.Pillar{
	model.PillarCriminal,
	model.PillarCivil,
	model.PillarAdministrative,
	model.PillarQuasiCriminal,
}

var pillarKeywords = map[model.Pillar][]string{
	model.PillarCriminal: {
		"criminal", "charged", "arrest", "arrested", "police", "assault", "theft", "crown",
		"bail", "indictment", "accused", "sentencing", "criminal code", "peace bond",
	},
	model.PillarCivil: {
		"lawsuit", "sue", "suing", "damages", "negligence", "contract", "breach", "compensation",
		"small claims", "statement of claim", "insurance", "refund", "warranty", "estate",
		"malpractice", "injury",
	},
	model.PillarAdministrative: {
		"tribunal", "board", "landlord", "tenant", "eviction", "ltb", "hrto", "human rights",
		"discrimination", "judicial review", "licence", "permit", "benefits", "wsib", "odsp",
	},
	model.PillarQuasiCriminal: {
		"provincial offence", "provincial offences", "ticket", "speeding", "bylaw", "by-law",
		"parking", "highway traffic act", "fine",
	},
}

// PillarClassifier tags text with its top-level legal character
type PillarClassifier struct {
	patterns map[model.Pillar]*regexp.Regexp
}

// NewPillarClassifier creates a new pillar classifier
func NewPillarClassifier() *PillarClassifier {
	patterns := make(map[model.Pillar]*regexp.Regexp, len(pillarKeywords))
	for pillar, words := range pillarKeywords {
		alts := make([]string, 0, len(words))
		for _, w := range words {
			alts = append(alts, regexp.QuoteMeta(w))
		}
		patterns[pillar] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
	}
	return &PillarClassifier{patterns: patterns}
}

// DetectAllPillars returns every pillar whose keyword set matches, in fixed order
func (c *PillarClassifier) DetectAllPillars(text string) []model.Pillar {
	var matches []model.Pillar
	for _, p := range pillarOrder {
		if c.patterns[p].MatchString(text) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Classify returns exactly one pillar. Several matches resolve to Criminal
// if it is among them, otherwise to Unknown so a human reviews the matter.
func (c *PillarClassifier) Classify(text string) model.Pillar {
	matches := c.DetectAllPillars(text)
	switch len(matches) {
	case 0:
		return model.PillarUnknown
	case 1:
		return matches[0]
	}
	for _, m := range matches {
		if m == model.PillarCriminal {
			return model.PillarCriminal
		}
	}
	return model.PillarUnknown
}
