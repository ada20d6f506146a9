// Package gmailspace numbers every possible Gmail username.
//
// A username is a string of 6 to 30 characters drawn from the lowercase
// letters, the digits, '_' and '-', which neither starts nor ends with a
// separator ('_' or '-') and never has two separators next to each other.
// Periods are not part of the language: Gmail ignores them, see [Normalize].
//
// The package provides a bijection between the integers [0, Total()) and
// that set of strings:
//
//   - [Decode] returns the username at a given index.
//   - [Encode] returns the index of a username, or false if the string is not
//     a valid username.
//
// # Ordering
//
// Usernames are ordered first by length, then lexicographically over the
// alphabet order "abcdefghijklmnopqrstuvwxyz0123456789_-". Index 0 is
// "aaaaaa", and each length occupies a contiguous band of indices (see
// [CumulativeBefore] and [CountForLength]). Within a band, the index of a
// username is its rank among the valid strings of that length, computed
// digit by digit: each position contributes the number of valid completions
// of every smaller symbol that is allowed there. The band sizes are exact, so
// there are no gaps and no collisions.
//
// The domain has roughly 2.1e47 elements; indices are *big.Int throughout.
// The alphabet, its order and the length bounds are part of the index
// contract: changing any of them renumbers every username.
//
// All functions are safe for concurrent use. The cardinality tables are
// computed once at package initialization and never modified.
package gmailspace
