package gmailspace

import (
	"errors"
	"strconv"

	"github.com/thehowl/gmailspace/internal/alphabet"
)

// ErrInvalid matches every error returned by [Validate], using errors.Is.
var ErrInvalid = errors.New("gmailspace: invalid username")

// Reason identifies which rule a candidate username breaks.
type Reason uint8

// Rejection reasons, reported by [Validate] in [InvalidError].
const (
	ReasonTooShort Reason = iota + 1
	ReasonTooLong
	ReasonInvalidCharacter
	ReasonLeadingSeparator
	ReasonTrailingSeparator
	ReasonAdjacentSeparators
)

var reasonNames = [...]string{
	ReasonTooShort:           "too short",
	ReasonTooLong:            "too long",
	ReasonInvalidCharacter:   "invalid character",
	ReasonLeadingSeparator:   "starts with a separator",
	ReasonTrailingSeparator:  "ends with a separator",
	ReasonAdjacentSeparators: "adjacent separators",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) && reasonNames[r] != "" {
		return reasonNames[r]
	}
	return "Reason(" + strconv.Itoa(int(r)) + ")"
}

// InvalidError describes why a string is not a valid username.
//
// Pos is the byte offset of the offending character, or the length of the
// string for ReasonTooShort and ReasonTooLong.
type InvalidError struct {
	Reason Reason
	Pos    int
}

func (e *InvalidError) Error() string {
	switch e.Reason {
	case ReasonTooShort, ReasonTooLong:
		return "gmailspace: invalid username: " + e.Reason.String() + " (length " + strconv.Itoa(e.Pos) + ")"
	}
	return "gmailspace: invalid username: " + e.Reason.String() + " at byte " + strconv.Itoa(e.Pos)
}

// Is reports whether target is ErrInvalid.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate returns nil if s is a valid username, or an *InvalidError for the
// first rule it breaks. Length is checked first; the remaining rules are
// checked left to right.
func Validate(s string) error {
	switch {
	case len(s) < MinLength:
		return &InvalidError{Reason: ReasonTooShort, Pos: len(s)}
	case len(s) > MaxLength:
		return &InvalidError{Reason: ReasonTooLong, Pos: len(s)}
	}

	afterSep := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !alphabet.Contains(c) {
			return &InvalidError{Reason: ReasonInvalidCharacter, Pos: i}
		}
		if !alphabet.IsSeparator(c) {
			afterSep = false
			continue
		}
		switch {
		case i == 0:
			return &InvalidError{Reason: ReasonLeadingSeparator, Pos: i}
		case i == len(s)-1:
			return &InvalidError{Reason: ReasonTrailingSeparator, Pos: i}
		case afterSep:
			return &InvalidError{Reason: ReasonAdjacentSeparators, Pos: i}
		}
		afterSep = true
	}
	return nil
}

// IsValid reports whether s is a valid username.
func IsValid(s string) bool {
	return Validate(s) == nil
}
