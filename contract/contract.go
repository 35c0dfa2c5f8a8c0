// Package contract screens extracted document text for the structural
// markers of a legal contract.
//
// This is deliberately a cheap, explainable heuristic — keyword containment
// plus line-shape heading detection, no NLP. The output is a pre-screening
// signal for a downstream AI reviewer, not a legal determination. The
// trigger phrases are Russian legal boilerplate and are a behavioral
// contract: do not generalize or translate them.
package contract

import (
	"strings"
	"unicode"
)

// Report is the result of analyzing one document. Produced fresh per call
// and never mutated afterwards.
type Report struct {
	HasParties          bool `json:"has_parties"`
	HasSubject          bool `json:"has_subject"`
	HasTerms            bool `json:"has_terms"`
	HasResponsibilities bool `json:"has_responsibilities"`
	HasSignatures       bool `json:"has_signatures"`

	// Sections lists heading-candidate lines in document order,
	// duplicates included.
	Sections []string `json:"sections"`
}

// maxHeadingLen bounds the trimmed length of a heading candidate.
const maxHeadingLen = 100

// sectionTriggers maps each section category to its ordered trigger
// phrases. A category fires on the first phrase found as a case-insensitive
// substring; adding a category means adding a row here, not a branch.
var sectionTriggers = map[string][]string{
	"parties":          {"стороны", "заказчик", "исполнитель", "продавец", "покупатель", "арендатор", "арендодатель"},
	"subject":          {"предмет договора", "предмет соглашения"},
	"terms":            {"сроки", "срок действия", "период"},
	"responsibilities": {"обязанности", "ответственность", "обязательства"},
	"signatures":       {"подписи сторон", "реквизиты"},
}

// Analyze scans text for canonical contract sections and heading-like
// lines. It never fails; empty input yields a zero report.
func Analyze(text string) *Report {
	r := &Report{Sections: []string{}}
	if text == "" {
		return r
	}

	lower := strings.ToLower(text)
	for category, phrases := range sectionTriggers {
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				r.setFlag(category)
				break
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isHeadingCandidate(trimmed) {
			continue
		}
		if len([]rune(trimmed)) < maxHeadingLen {
			r.Sections = append(r.Sections, trimmed)
		}
	}

	return r
}

func (r *Report) setFlag(category string) {
	switch category {
	case "parties":
		r.HasParties = true
	case "subject":
		r.HasSubject = true
	case "terms":
		r.HasTerms = true
	case "responsibilities":
		r.HasResponsibilities = true
	case "signatures":
		r.HasSignatures = true
	}
}

// isHeadingCandidate applies the line-shape heuristics: entirely
// upper-case, a digit within the first three runes, a leading section
// mark, or the literal word "Статья".
func isHeadingCandidate(trimmed string) bool {
	if isUpper(trimmed) {
		return true
	}
	runes := []rune(trimmed)
	for i := 0; i < len(runes) && i < 3; i++ {
		if unicode.IsDigit(runes[i]) {
			return true
		}
	}
	return strings.HasPrefix(trimmed, "§") || strings.HasPrefix(trimmed, "Статья")
}

// isUpper reports whether the string contains at least one cased letter
// and no lower-case letters.
func isUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

// CharCount returns the number of runes in text.
func CharCount(text string) int {
	return len([]rune(text))
}

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
