package gmailspace

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/thehowl/gmailspace/internal/alphabet"
)

const (
	// MinLength is the length of the shortest username.
	MinLength = 6
	// MaxLength is the length of the longest username.
	MaxLength = 30

	// BandCount is the number of length bands, one per username length.
	BandCount = MaxLength - MinLength + 1
)

// ErrLengthOutOfRange is returned by the cardinality accessors for a length
// outside [MinLength, MaxLength].
var ErrLengthOutOfRange = errors.New("gmailspace: length out of range")

// cardinality holds the counting tables shared by Encode and Decode.
type cardinality struct {
	// suffix[r][0] is the number of ways to fill the last r positions of a
	// username when the preceding symbol is alphanumeric; suffix[r][1] when it
	// is a separator.
	suffix [MaxLength][2]*big.Int

	// count[l] is the number of usernames of length l.
	count [MaxLength + 1]*big.Int

	// cumulative[l] is the number of usernames shorter than l.
	// cumulative[MaxLength+1] is the total.
	cumulative [MaxLength + 2]*big.Int
}

var (
	table = newCardinality()

	bigAlnum = big.NewInt(alphabet.AlnumSize)
	bigSep   = big.NewInt(alphabet.SeparatorCount)
)

func newCardinality() *cardinality {
	c := new(cardinality)

	// The last position is always alphanumeric; an interior position may hold
	// a separator unless the previous one did.
	c.suffix[0] = [2]*big.Int{big.NewInt(1), big.NewInt(1)}
	c.suffix[1] = [2]*big.Int{big.NewInt(alphabet.AlnumSize), big.NewInt(alphabet.AlnumSize)}
	for r := 2; r < MaxLength; r++ {
		alnum := new(big.Int).Mul(bigAlnum, c.suffix[r-1][0])
		sep := new(big.Int).Mul(bigSep, c.suffix[r-1][1])
		c.suffix[r] = [2]*big.Int{
			sep.Add(sep, alnum),
			alnum,
		}
	}

	for l := range c.count {
		c.count[l] = new(big.Int)
		if l >= MinLength {
			// The first position is alphanumeric.
			c.count[l].Mul(bigAlnum, c.suffix[l-1][0])
		}
	}

	c.cumulative[0] = new(big.Int)
	for l := 1; l < len(c.cumulative); l++ {
		c.cumulative[l] = new(big.Int).Add(c.cumulative[l-1], c.count[l-1])
	}
	return c
}

func checkLength(l int) error {
	if l < MinLength || l > MaxLength {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrLengthOutOfRange, l, MinLength, MaxLength)
	}
	return nil
}

// CountForLength returns the number of valid usernames of length l.
func CountForLength(l int) (*big.Int, error) {
	if err := checkLength(l); err != nil {
		return nil, err
	}
	return new(big.Int).Set(table.count[l]), nil
}

// CumulativeBefore returns the number of valid usernames shorter than l,
// which is the index of the first username of length l.
//
// l may also be MaxLength+1, in which case the result equals [Total].
func CumulativeBefore(l int) (*big.Int, error) {
	if l != MaxLength+1 {
		if err := checkLength(l); err != nil {
			return nil, err
		}
	}
	return new(big.Int).Set(table.cumulative[l]), nil
}

// Total returns the number of valid usernames. Valid indices are
// [0, Total()).
func Total() *big.Int {
	return new(big.Int).Set(table.cumulative[MaxLength+1])
}

// UnconstrainedCount returns alphabet.Size^l, the number of strings of length
// l over the alphabet with no adjacency or boundary rules. It is an upper bound
// of [CountForLength] and plays no part in indexing.
func UnconstrainedCount(l int) (*big.Int, error) {
	if err := checkLength(l); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(big.NewInt(alphabet.Size), big.NewInt(int64(l)), nil), nil
}

// Band describes the slice of the index space holding the usernames of one
// length.
type Band struct {
	Length int
	// Offset is the index of the first username of this length.
	Offset *big.Int
	// Count is the number of usernames of this length.
	Count *big.Int
}

// Bands returns the length bands in increasing order of length.
func Bands() []Band {
	bands := make([]Band, 0, BandCount)
	for l := MinLength; l <= MaxLength; l++ {
		bands = append(bands, Band{
			Length: l,
			Offset: new(big.Int).Set(table.cumulative[l]),
			Count:  new(big.Int).Set(table.count[l]),
		})
	}
	return bands
}

// LengthOf returns the length of the username at index.
// It returns an error wrapping [ErrOutOfRange] if index is not in
// [0, Total()).
func LengthOf(index *big.Int) (int, error) {
	if index == nil || index.Sign() < 0 || index.Cmp(table.cumulative[MaxLength+1]) >= 0 {
		return 0, outOfRange(index)
	}
	for l := MinLength; l <= MaxLength; l++ {
		if index.Cmp(table.cumulative[l+1]) < 0 {
			return l, nil
		}
	}
	// unreachable: the last band ends at the total.
	return 0, outOfRange(index)
}

// SymbolToValue returns the digit value of c, or -1 if c is not in the
// alphabet.
func SymbolToValue(c byte) int {
	return alphabet.ToValue(c)
}

// ValueToSymbol returns the symbol with digit value v.
// It panics if v is not in [0, alphabet size).
func ValueToSymbol(v int) byte {
	return alphabet.ToSymbol(v)
}
