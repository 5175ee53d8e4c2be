package extract

import "strings"

// abbreviations that end in a period without ending a sentence in legal text
var abbreviations = map[string]bool{
	"v.": true, "vs.": true, "s.": true, "ss.": true, "no.": true, "para.": true,
	"r.": true, "reg.": true, "o.": true, "c.": true, "inc.": true, "ltd.": true,
	"corp.": true, "mr.": true, "mrs.": true, "ms.": true, "dr.": true, "st.": true,
}

// Sentences splits text into sentences between minLen and maxLen bytes.
// Statute and citation abbreviations ("s. 8", "Smith v. Jones") do not end a
// sentence. A maxLen of zero means no upper bound.
func Sentences(text string, minLen, maxLen int) []string {
	words := strings.Fields(text)

	var (
		sentences []string
		current   []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		sentence := strings.Join(current, " ")
		current = current[:0]
		if len(sentence) < minLen || (maxLen > 0 && len(sentence) > maxLen) {
			return
		}
		sentences = append(sentences, sentence)
	}

	for _, w := range words {
		current = append(current, w)
		if endsSentence(w) {
			flush()
		}
	}
	flush()

	return sentences
}

func endsSentence(word string) bool {
	trimmed := strings.TrimRight(word, `"')]`)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '!', '?':
		return true
	case '.':
		return !abbreviations[strings.ToLower(trimmed)]
	}
	return false
}
