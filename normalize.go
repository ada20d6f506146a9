package gmailspace

import (
	"math/big"
	"strings"
)

var gmailDomains = []string{"@gmail.com", "@googlemail.com"}

// Normalize returns the canonical spelling of a typed username: surrounding
// whitespace is trimmed, letters are lowercased, a trailing "@gmail.com" or
// "@googlemail.com" is removed, and periods are dropped, since Gmail ignores
// them.
//
// The result is not necessarily valid.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range gmailDomains {
		if strings.HasSuffix(s, d) {
			s = s[:len(s)-len(d)]
			break
		}
	}
	return strings.ReplaceAll(s, ".", "")
}

// EncodeNormalized normalizes s and encodes the result. It returns the
// normalized username alongside its index.
func EncodeNormalized(s string) (*big.Int, string, bool) {
	n := Normalize(s)
	idx, ok := Encode(n)
	return idx, n, ok
}
