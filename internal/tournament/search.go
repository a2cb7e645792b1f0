package tournament

import (
	"sort"
	"strings"
	"unicode"
)

// minSearchScore is the lowest similarity a candidate needs to be returned.
const minSearchScore = 0.5

// PlayerMatch is a search hit with its similarity score in [0,1].
type PlayerMatch struct {
	Player  Player   `json:"player"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// SearchPlayers ranks players by how closely their display name resembles
// query. Hits are ordered by score, best first, ties by ascending id.
// limit <= 0 returns every hit.
func SearchPlayers(players []Player, query string, limit int) []PlayerMatch {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var hits []PlayerMatch
	for _, p := range players {
		name := normalizeName(p.DisplayName)
		score := nameSimilarity(q, name)
		if strings.Contains(name, q) {
			score = max(score, 0.9)
		}
		if score < minSearchScore {
			continue
		}
		hits = append(hits, PlayerMatch{Player: p, Score: score, Reasons: matchReasons(q, name)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Player.ID < hits[j].Player.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func nameSimilarity(query, name string) float64 {
	return (stringSimilarity(query, name) + tokenSimilarity(query, name)) / 2
}

func matchReasons(query, name string) []string {
	var reasons []string
	switch {
	case query == name:
		reasons = append(reasons, "Exact name match")
	case strings.Contains(name, query):
		reasons = append(reasons, "Name contains query")
	case stringSimilarity(query, name) > 0.8:
		reasons = append(reasons, "Very similar name")
	}
	if tokenSimilarity(query, name) > 0.5 {
		reasons = append(reasons, "Matching name components")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Partial name similarity")
	}
	return reasons
}

// normalizeName lowercases, keeps letters, digits and spaces, and collapses
// runs of whitespace.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// tokenSimilarity is the share of words in the longer name that have a
// close counterpart in the other.
func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, x := range ta {
		for _, y := range tb {
			if stringSimilarity(x, y) > 0.8 {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(max(len(ta), len(tb)))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
