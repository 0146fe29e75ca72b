// Package resolve maps free-text team and fighter names to provider
// entities. There is no shared identity key across providers, so matching
// is heuristic: normalized, token-based, bidirectional substring
// containment. Resolution is deterministic but not guaranteed globally
// optimal; short ambiguous names can mis-resolve and callers should
// pre-filter candidates by league when they can.
package resolve

import (
	"strings"
	"unicode"
)

// Candidate is one provider entity a query can resolve to.
type Candidate struct {
	ID      string
	Name    string
	Aliases []string
	League  string
}

// Match is a scored resolution result.
type Match struct {
	Candidate Candidate
	Score     int
}

// Scores are layered so exact matches always beat whole-string containment,
// which always beats token overlap.
const (
	scoreExact   = 400
	scoreContain = 200
	scoreToken   = 80

	// minTokenLen guards against one- and two-letter tokens matching
	// everything ("fc", "la").
	minTokenLen = 3
)

// Normalize lower-cases s, converts every non-alphanumeric rune to a space
// and collapses runs of spaces.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func squash(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Score rates how well candidate name matches query. Zero means no match.
func Score(query, candidate string) int {
	nq := Normalize(query)
	nc := Normalize(candidate)
	if nq == "" || nc == "" {
		return 0
	}

	sq := squash(nq)
	sc := squash(nc)

	if sq == sc {
		return scoreExact + len(sq)
	}
	if strings.Contains(sc, sq) || strings.Contains(sq, sc) {
		overlap := len(sq)
		if len(sc) < overlap {
			overlap = len(sc)
		}
		if overlap >= minTokenLen {
			return scoreContain + overlap
		}
	}

	// Token overlap: the trailing token doubles as a nickname surrogate
	// ("Mavericks" for "Dallas Mavericks"), but any sufficiently long
	// shared token counts. The longest overlap wins.
	best := 0
	for _, tq := range strings.Fields(nq) {
		if len(tq) < minTokenLen {
			continue
		}
		for _, tc := range strings.Fields(nc) {
			if len(tc) < minTokenLen {
				continue
			}
			if tq != tc && !strings.Contains(tc, tq) && !strings.Contains(tq, tc) {
				continue
			}
			overlap := len(tq)
			if len(tc) < overlap {
				overlap = len(tc)
			}
			if s := scoreToken + overlap; s > best {
				best = s
			}
		}
	}
	return best
}

// scoreCandidate takes the best score across the candidate's name and
// aliases.
func scoreCandidate(query string, c Candidate) int {
	best := Score(query, c.Name)
	for _, alias := range c.Aliases {
		if s := Score(query, alias); s > best {
			best = s
		}
	}
	return best
}

// Rank scores every candidate against query and returns the matches in
// descending score order, non-matches excluded. Equal scores keep provider
// order, which is what makes ties deterministic.
func Rank(query string, candidates []Candidate) []Match {
	var matches []Match
	for _, c := range candidates {
		if s := scoreCandidate(query, c); s > 0 {
			matches = append(matches, Match{Candidate: c, Score: s})
		}
	}
	// Insertion sort keeps the first provider-ordered candidate ahead on
	// ties (strict > comparison).
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Score > matches[j-1].Score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	return matches
}

// Resolve returns the single best candidate for query, or ok=false when
// nothing matches. There is deliberately no best-guess fallback below the
// match threshold: analyzing the wrong team silently is worse than failing.
func Resolve(query string, candidates []Candidate) (Candidate, bool) {
	matches := Rank(query, candidates)
	if len(matches) == 0 {
		return Candidate{}, false
	}
	return matches[0].Candidate, true
}

// FilterLeague narrows candidates to one league when the caller knows it.
// An empty league or no survivors returns the input unchanged, keeping the
// league hint strictly a pre-filter rather than a hard constraint.
func FilterLeague(league string, candidates []Candidate) []Candidate {
	if league == "" {
		return candidates
	}
	nl := Normalize(league)
	var filtered []Candidate
	for _, c := range candidates {
		if Normalize(c.League) == nl {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}
