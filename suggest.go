package gmailspace

import (
	"math/big"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/thehowl/gmailspace/internal/alphabet"
)

// Suggestion is a valid username close to a rejected candidate.
type Suggestion struct {
	Username string
	Index    *big.Int
	// Distance is the Levenshtein distance from the input.
	Distance int
}

// Suggest proposes valid usernames for the candidate s, closest first.
//
// Candidates are derived by normalizing s, dropping symbols outside the
// alphabet, collapsing runs of separators, trimming separators from both
// ends, truncating to MaxLength and padding to MinLength with '0'. Only
// valid results are kept; they are ordered by edit distance to s, then by
// index. If s is itself valid, it is the first suggestion, at distance 0.
//
// At most max suggestions are returned; max <= 0 means no limit.
func Suggest(s string, max int) []Suggestion {
	var (
		seen = make(map[string]bool)
		res  []Suggestion
	)
	add := func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		idx, ok := Encode(c)
		if !ok {
			return
		}
		res = append(res, Suggestion{
			Username: c,
			Index:    idx,
			Distance: edlib.LevenshteinDistance(s, c),
		})
	}

	add(s)
	n := Normalize(s)
	add(n)
	c := trimSeparators(collapseSeparators(filterAlphabet(n)))
	add(c)
	if len(c) > MaxLength {
		c = trimSeparators(c[:MaxLength])
		add(c)
	}
	if c != "" && len(c) < MinLength {
		add(c + strings.Repeat("0", MinLength-len(c)))
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Distance != res[j].Distance {
			return res[i].Distance < res[j].Distance
		}
		return res[i].Index.Cmp(res[j].Index) < 0
	})
	if max > 0 && len(res) > max {
		res = res[:max]
	}
	return res
}

func filterAlphabet(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if alphabet.Contains(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// collapseSeparators keeps the first separator of every run.
func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if i > 0 && alphabet.IsSeparator(s[i]) && alphabet.IsSeparator(s[i-1]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func trimSeparators(s string) string {
	return strings.Trim(s, "_-")
}
