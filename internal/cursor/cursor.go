// Package cursor encodes username indices as opaque page tokens.
//
// A token is the index written as a base-32 numeral, most significant digit
// first, using the symbol set [specified by Douglas Crockford] in lowercase.
// Tokens carry no padding and no leading zeros, so small indices get short
// tokens.
//
// When decoding, upper and lower case are equivalent, the characters i I l L
// are read as 1, and o O as 0, so tokens survive being read aloud or copied
// by hand.
//
// [specified by Douglas Crockford]: https://www.crockford.com/base32.html
package cursor

import (
	"math/big"
	"strconv"
)

const (
	encTableLower = "0123456789abcdefghjkmnpqrstvwxyz"

	// each line is 16 bytes
	decTable = "" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 00-0f
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 10-1f
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 20-2f
		"\x00\x01\x02\x03\x04\x05\x06\x07\x08\x09\xff\xff\xff\xff\xff\xff" + // 30-3f
		"\xff\x0a\x0b\x0c\x0d\x0e\x0f\x10\x11\x01\x12\x13\x01\x14\x15\x00" + // 40-4f
		"\x16\x17\x18\x19\x1a\xff\x1b\x1c\x1d\x1e\x1f\xff\xff\xff\xff\xff" + // 50-5f
		"\xff\x0a\x0b\x0c\x0d\x0e\x0f\x10\x11\x01\x12\x13\x01\x14\x15\x00" + // 60-6f
		"\x16\x17\x18\x19\x1a\xff\x1b\x1c\x1d\x1e\x1f\xff\xff\xff\xff\xff" + // 70-7f
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 80-ff (not ASCII)
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
		"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff"
)

const mask = 31

// CorruptInputError is returned by [Decode] when the token holds a character
// outside the encoding, or is empty. The integer value is the byte index where
// the error occurred.
type CorruptInputError int64

func (e CorruptInputError) Error() string {
	return "illegal cursor data at input byte " + strconv.FormatInt(int64(e), 10)
}

// EncodedLen returns the length of the token for idx.
func EncodedLen(idx *big.Int) int {
	if n := (idx.BitLen() + 4) / 5; n > 0 {
		return n
	}
	return 1
}

// Append appends the token for idx to b. idx must not be negative.
func Append(b []byte, idx *big.Int) []byte {
	if idx.Sign() < 0 {
		panic("cursor: negative index")
	}
	for d := EncodedLen(idx) - 1; d >= 0; d-- {
		var v uint
		for bit := 4; bit >= 0; bit-- {
			v = v<<1 | idx.Bit(d*5+bit)
		}
		b = append(b, encTableLower[v&mask])
	}
	return b
}

// Encode returns the token for idx. idx must not be negative.
func Encode(idx *big.Int) string {
	return string(Append(make([]byte, 0, EncodedLen(idx)), idx))
}

// Decode parses a token into the index it encodes.
//
// If s is empty or contains a character outside the encoding, a
// CorruptInputError is returned.
func Decode(s string) (*big.Int, error) {
	if s == "" {
		return nil, CorruptInputError(0)
	}
	var (
		n   = new(big.Int)
		dig big.Int
	)
	for i := 0; i < len(s); i++ {
		v := decTable[s[i]]
		if v > mask {
			return nil, CorruptInputError(i)
		}
		n.Lsh(n, 5)
		n.Or(n, dig.SetUint64(uint64(v)))
	}
	return n, nil
}
