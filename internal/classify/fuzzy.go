package classify

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Match is one fuzzy-match candidate for an unrecognized expense name.
type Match struct {
	Name  string
	Ratio float64
}

// CloseMatches ranks the known expense names by similarity to the query and
// returns at most cfg.MaxCandidates of them, best first. Only names whose
// similarity ratio reaches cfg.MinSimilarity are offered. Ties break on name
// so disambiguation prompts are stable across runs.
func CloseMatches(query string, names []string, cfg Config) []Match {
	matches := make([]Match, 0, len(names))
	for _, name := range names {
		ratio := similarity(query, name)
		if ratio >= cfg.MinSimilarity {
			matches = append(matches, Match{Name: name, Ratio: ratio})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Ratio != matches[j].Ratio {
			return matches[i].Ratio > matches[j].Ratio
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > cfg.MaxCandidates {
		matches = matches[:cfg.MaxCandidates]
	}
	return matches
}

// similarity computes the sequence-match ratio between two names, comparing
// character by character.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
