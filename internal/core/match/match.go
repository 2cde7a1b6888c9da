// Package match provides the pure keyword matcher used to decide relevance.
// Matching is case-insensitive substring containment under Unicode case
// folding, so "Denied Claim" matches the keyword "denied claim" and folded
// forms like "STRASSE"/"strasse" agree. First keyword by list order wins
package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher tests text against an ordered keyword list. It performs no I/O
// and is safe for concurrent use
type Matcher struct {
	keywords []string
	folded   []string
}

// New builds a Matcher from keywords in priority order. Blank entries are
// dropped; order is preserved
func New(keywords []string) *Matcher {
	m := &Matcher{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		m.keywords = append(m.keywords, kw)
		m.folded = append(m.folded, fold(kw))
	}
	return m
}

// Keywords returns the effective keyword list in match-priority order
func (m *Matcher) Keywords() []string { return m.keywords }

// Match returns the first keyword contained in text, or ok=false.
// Empty or whitespace-only text never matches
func (m *Matcher) Match(text string) (keyword string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	ft := fold(text)
	for i, fk := range m.folded {
		if strings.Contains(ft, fk) {
			return m.keywords[i], true
		}
	}
	return "", false
}

// fold applies Unicode case folding; a fresh caser per call keeps Match
// concurrency safe (cases.Caser carries internal state)
func fold(s string) string {
	return cases.Fold().String(s)
}
