package gmailspace

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/thehowl/gmailspace/internal/alphabet"
)

// ErrOutOfRange is returned when an index is negative or not below [Total].
var ErrOutOfRange = errors.New("gmailspace: index out of range")

func outOfRange(index *big.Int) error {
	if index == nil {
		return fmt.Errorf("%w: <nil>", ErrOutOfRange)
	}
	return fmt.Errorf("%w: %s", ErrOutOfRange, index.String())
}

// Decode returns the username at index.
//
// It returns an error wrapping [ErrOutOfRange] if index is nil, negative, or
// not below [Total]. The result always satisfies [IsValid].
func Decode(index *big.Int) (string, error) {
	l, err := LengthOf(index)
	if err != nil {
		return "", err
	}
	offset := new(big.Int).Sub(index, table.cumulative[l])
	return string(appendUsername(make([]byte, 0, l), offset, l)), nil
}

// DecodeUint64 works like [Decode] for indices that fit in a uint64.
func DecodeUint64(index uint64) (string, error) {
	return Decode(new(big.Int).SetUint64(index))
}

// appendUsername appends the username of length l ranked offset within its
// band. offset must be in [0, CountForLength(l)); it is consumed.
func appendUsername(b []byte, offset *big.Int, l int) []byte {
	var (
		q, m  big.Int
		block big.Int
	)
	for i := 0; i < l; i++ {
		r := l - 1 - i

		// Alphanumeric symbols come first in the alphabet, each followed by
		// suffix[r][0] completions.
		w := table.suffix[r][0]
		block.Mul(bigAlnum, w)
		if offset.Cmp(&block) < 0 {
			q.QuoRem(offset, w, &m)
			offset.Set(&m)
			b = append(b, alphabet.ToSymbol(int(q.Int64())))
			continue
		}

		// Past the alphanumeric block. The remaining count at each position
		// equals the number of symbols allowed there times their completions,
		// so this is only reached where a separator is allowed.
		offset.Sub(offset, &block)
		q.QuoRem(offset, table.suffix[r][1], &m)
		offset.Set(&m)
		b = append(b, alphabet.ToSymbol(alphabet.AlnumSize+int(q.Int64())))
	}
	return b
}

// Encode returns the index of the username s.
//
// If s is not a valid username, Encode returns nil, false. Use [Validate] to
// learn why a string was rejected.
func Encode(s string) (*big.Int, bool) {
	if !IsValid(s) {
		return nil, false
	}

	l := len(s)
	idx := new(big.Int).Set(table.cumulative[l])
	var t, n big.Int
	for i := 0; i < l; i++ {
		r := l - 1 - i
		v := alphabet.ToValue(s[i])

		// Every smaller alphanumeric symbol is allowed at any position.
		if below := min(v, alphabet.AlnumSize); below > 0 {
			n.SetInt64(int64(below))
			idx.Add(idx, t.Mul(&n, table.suffix[r][0]))
		}
		// A separator in a valid username sits where separators are allowed,
		// so the separators sorting before it are allowed too.
		if below := v - alphabet.AlnumSize; below > 0 {
			n.SetInt64(int64(below))
			idx.Add(idx, t.Mul(&n, table.suffix[r][1]))
		}
	}
	return idx, true
}
