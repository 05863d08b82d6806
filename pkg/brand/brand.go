// Package brand decides whether two free-text brand names denote the same
// manufacturer.
package brand

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// MatchThreshold is the minimum bigram similarity for two unrelated spellings to match.
const MatchThreshold = 0.8

// minContainedLen guards substring relevance against short tokens like "GM".
const minContainedLen = 4

// Matcher resolves brand names against a table of alias groups.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	// canonical maps a standardized spelling to its group's standardized first member.
	canonical map[string]string
}

// Default is backed by DefaultGroups.
var Default = NewMatcher(DefaultGroups)

// NewMatcher builds a matcher from alias groups. When a spelling appears in
// more than one group, the earlier group keeps it.
func NewMatcher(groups [][]string) *Matcher {
	m := &Matcher{canonical: make(map[string]string)}
	m.add(groups)
	return m
}

// With returns a copy of m extended by extra groups. Existing spellings win.
func (m *Matcher) With(groups [][]string) *Matcher {
	out := &Matcher{canonical: make(map[string]string, len(m.canonical))}
	for k, v := range m.canonical {
		out.canonical[k] = v
	}
	out.add(groups)
	return out
}

func (m *Matcher) add(groups [][]string) {
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		head := Standardize(group[0])
		if head == "" {
			continue
		}
		for _, alias := range group {
			key := Standardize(alias)
			if key == "" {
				continue
			}
			if _, taken := m.canonical[key]; !taken {
				m.canonical[key] = head
			}
		}
	}
}

// Standardize folds a brand name into a comparable token: one script,
// upper case, only [A-Z0-9], with "AUTO" spelled "AVTO".
func Standardize(name string) string {
	s := norm.NFKC.String(name)
	s = unidecode.Unidecode(s)
	s = strings.ToUpper(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return strings.ReplaceAll(b.String(), "AUTO", "AVTO")
}

// CanonicalGroup returns the canonical token of the group name belongs to.
func (m *Matcher) CanonicalGroup(name string) (string, bool) {
	key := Standardize(name)
	if key == "" {
		return "", false
	}
	c, ok := m.canonical[key]
	return c, ok
}

// IsBrandMatch reports whether expected and actual name the same manufacturer.
// A blank name ("" or only whitespace) means no brand and matches nothing,
// itself included. Any name with a visible character matches itself.
func (m *Matcher) IsBrandMatch(expected, actual string) bool {
	expected = strings.TrimSpace(expected)
	actual = strings.TrimSpace(actual)
	if expected == "" || actual == "" {
		return false
	}

	ge, okE := m.CanonicalGroup(expected)
	ga, okA := m.CanonicalGroup(actual)
	if okE && okA {
		return ge == ga
	}

	se, sa := Standardize(expected), Standardize(actual)
	if se == "" || sa == "" {
		// Nothing survived folding (e.g. "***"); only identical input matches.
		return strings.EqualFold(expected, actual)
	}
	return Similarity(se, sa) >= MatchThreshold
}

// IsRelevantBrand is a looser IsBrandMatch that also accepts one long token
// containing the other ("MANNFILTER" vs "MANN" is a match, "GM" vs "GMB" is not).
func (m *Matcher) IsRelevantBrand(expected, actual string) bool {
	if m.IsBrandMatch(expected, actual) {
		return true
	}
	se, sa := Standardize(expected), Standardize(actual)
	if len(se) < minContainedLen || len(sa) < minContainedLen {
		return false
	}
	return strings.Contains(se, sa) || strings.Contains(sa, se)
}

func CanonicalGroup(name string) (string, bool) { return Default.CanonicalGroup(name) }

func IsBrandMatch(expected, actual string) bool { return Default.IsBrandMatch(expected, actual) }

func IsRelevantBrand(expected, actual string) bool { return Default.IsRelevantBrand(expected, actual) }
