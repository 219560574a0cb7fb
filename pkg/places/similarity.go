package places

import (
	"regexp"
	"strings"
)

// MinimumMatchConfidence is the acceptance floor for fuzzy lookups: anything
// scoring below it is treated as no match at all.
const MinimumMatchConfidence = 70

// StringSimilarity scores how alike two strings are, from 0 (nothing in
// common) to 100 (identical). It is the Ratcliff/Obershelp ratio: twice the
// total length of the matching blocks over the combined length.
func StringSimilarity(a string, b string) int {
	ra, rb := []rune(a), []rune(b)
	length := len(ra) + len(rb)
	if length == 0 {
		return 100
	}

	matches := 0
	type span struct {
		alo, ahi, blo, bhi int
	}
	stack := []span{{0, len(ra), 0, len(rb)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(ra, rb, s.alo, s.ahi, s.blo, s.bhi)
		if size == 0 {
			continue
		}
		matches += size
		stack = append(stack,
			span{s.alo, i, s.blo, j},
			span{i + size, s.ahi, j + size, s.bhi})
	}

	return (200 * matches) / length
}

// longestMatch finds the longest matching block within a[alo:ahi] and
// b[blo:bhi], preferring the earliest match in a and then in b so that
// scoring is deterministic.
func longestMatch(a []rune, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	b2j := map[rune][]int{}
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj, bestsize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newj2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}

var (
	stationishQuery = regexp.MustCompile(`(BUS)?STN`)
)

// Similarity scores how well a free-text query matches this bus stop's name.
// Many queries are really station names ("Limehouse Station") so partial
// matches anchored at either end of the stop name score nearly as well as an
// exact one. The 90-95 band values are hand-tuned against sample requests;
// treat them as a golden contract.
func (s *StopPoint) Similarity(query string) int {
	myName := s.NormalisedName()
	theirName := NormaliseStopName(CleanupName(query, []string{"<>", "#", `\[DLR\]`, ">T<"}))

	if myName == theirName {
		return 100
	}

	if theirName != "" && stationishQuery.MatchString(theirName) {
		if strings.HasPrefix(myName, theirName) {
			return 95
		}
		if strings.HasSuffix(myName, theirName) {
			return 94
		}
	}

	if theirName != "" {
		if matched, _ := regexp.MatchString("^"+regexp.QuoteMeta(theirName)+"(BUS)?STN", myName); matched {
			return 91
		}
		if matched, _ := regexp.MatchString(regexp.QuoteMeta(theirName)+"(BUS)?STN$", myName); matched {
			return 90
		}
	}

	return StringSimilarity(myName, theirName)
}

// Similarity scores how well a free-text query matches this station's name.
// People abbreviate ("Kings Cross" for "King's Cross St. Pancras"), so a
// strong match against the name truncated to the query's length counts too -
// capped at 99 so an abbreviation can never beat an exact match.
func (s *Station) Similarity(query string) int {
	myName := strings.ToUpper(s.Name)
	theirName := strings.ToUpper(query)
	score := StringSimilarity(myName, theirName)

	nameRunes, queryRunes := []rune(myName), []rune(theirName)
	if len(queryRunes) < len(nameRunes) {
		abbreviatedScore := StringSimilarity(string(nameRunes[:len(queryRunes)]), theirName)
		if abbreviatedScore >= 85 && abbreviatedScore > score {
			if abbreviatedScore > 99 {
				return 99
			}
			return abbreviatedScore
		}
	}

	return score
}

// Scorer is anything that can rate its own likeness to a query string.
type Scorer interface {
	Similarity(query string) int
}

// BestMatch returns the highest-scoring candidate for the query, along with
// its score, provided it reaches the minimum confidence. Ties go to the
// earliest candidate so results are stable.
func BestMatch[T Scorer](query string, candidates []T, minimumConfidence int) (T, int, bool) {
	var best T
	bestScore := -1

	for _, candidate := range candidates {
		if score := candidate.Similarity(query); score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if bestScore >= minimumConfidence {
		return best, bestScore, true
	}

	var zero T
	return zero, bestScore, false
}
