// Package alphabet provides the ordered symbol set of the username language.
//
// The alphabet maps the characters a-z, 0-9, '_' and '-' to the integer values
// 0–37 and back. The order is part of the index contract: changing it
// renumbers every username.
package alphabet

import "fmt"

const (
	// Size is the number of symbols in the alphabet.
	Size = 38

	// AlnumSize is the number of alphanumeric symbols. They occupy values
	// [0, AlnumSize); the separators follow them.
	AlnumSize = 36

	// SeparatorCount is the number of separator symbols.
	SeparatorCount = Size - AlnumSize
)

// chars is the ordered symbol set.
const chars = "abcdefghijklmnopqrstuvwxyz0123456789_-"

// each line is 16 bytes
const decTable = "" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 00-0f
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 10-1f
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\x25\xff\xff" + // 20-2f
	"\x1a\x1b\x1c\x1d\x1e\x1f\x20\x21\x22\x23\xff\xff\xff\xff\xff\xff" + // 30-3f
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 40-4f
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\x24" + // 50-5f
	"\xff\x00\x01\x02\x03\x04\x05\x06\x07\x08\x09\x0a\x0b\x0c\x0d\x0e" + // 60-6f
	"\x0f\x10\x11\x12\x13\x14\x15\x16\x17\x18\x19\xff\xff\xff\xff\xff" + // 70-7f
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" + // 80-ff (not ASCII)
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff" +
	"\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff"

// Symbols returns the ordered symbol set as a string.
func Symbols() string {
	return chars
}

// ToSymbol converts a value (0–37) to its symbol.
// It panics if val is out of range.
func ToSymbol(val int) byte {
	if val < 0 || val >= Size {
		panic(fmt.Sprintf("alphabet: value %d out of range [0, %d)", val, Size))
	}
	return chars[val]
}

// ToValue converts a symbol to its value (0–37).
// It returns -1 if the byte is not in the alphabet.
func ToValue(c byte) int {
	v := decTable[c]
	if v == 0xff {
		return -1
	}
	return int(v)
}

// Contains reports whether c is a symbol of the alphabet.
func Contains(c byte) bool {
	return decTable[c] != 0xff
}

// IsSeparator reports whether c is '_' or '-'.
func IsSeparator(c byte) bool {
	return c == '_' || c == '-'
}

// IsSeparatorValue reports whether the value v denotes a separator.
func IsSeparatorValue(v int) bool {
	return v >= AlnumSize && v < Size
}

// IsAlnum reports whether c is a lowercase letter or a digit.
func IsAlnum(c byte) bool {
	v := decTable[c]
	return v != 0xff && int(v) < AlnumSize
}
