package gmailspace

import (
	"errors"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Known(t *testing.T) {
	tests := []struct {
		index uint64
		want  string
	}{
		{0, "aaaaaa"},
		{1, "aaaaab"},
		{35, "aaaaa9"},
		{36, "aaaaba"},
		{37, "aaaabb"},
		{1368, "aaabaa"},
		{2680667135, "9-9-99"}, // last username of length 6
		{2680667136, "aaaaaaa"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := DecodeUint64(tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Last(t *testing.T) {
	last := new(big.Int).Sub(Total(), big.NewInt(1))
	got, err := Decode(last)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("9-", 14)+"99", got)
}

func TestEncode_Known(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		// Without separators the index is the positional evaluation of the
		// symbol values with the per-position weights 74462976, 1964736,
		// 51840, 1368, 36 and 1:
		// a=0 b=1 0=26 x=23 y=24 z=25
		// 1*1964736 + 26*51840 + 23*1368 + 24*36 + 25 = 3344929
		{"ab0xyz", "3344929"},
		{"aaaaaa", "0"},
		{"abcdef", "2072669"},
		{"abc_de", "2117776"},
		{"abc-de", "2119072"},
		{"zzzzzz", "1912023925"},
		{"999999", "2676833495"},
		{"a-b-c-d", "5435949063"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			got, ok := Encode(tt.username)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEncode_PositionalWeights(t *testing.T) {
	weights := []int64{74462976, 1964736, 51840, 1368, 36, 1}
	const s = "ab0xyz"

	want := new(big.Int)
	for i := 0; i < len(s); i++ {
		term := big.NewInt(int64(SymbolToValue(s[i])) * weights[i])
		want.Add(want, term)
	}
	got, ok := Encode(s)
	require.True(t, ok)
	assert.Equal(t, 0, got.Cmp(want), "Encode(%q) = %s, want %s", s, got, want)
}

func TestDecode_OutOfRange(t *testing.T) {
	total := Total()
	for _, idx := range []*big.Int{
		nil,
		big.NewInt(-1),
		total,
		new(big.Int).Add(total, big.NewInt(1)),
	} {
		_, err := Decode(idx)
		assert.ErrorIs(t, err, ErrOutOfRange, "Decode(%v)", idx)
	}
}

func assertRoundTrip(t *testing.T, idx *big.Int) string {
	t.Helper()
	u, err := Decode(idx)
	require.NoError(t, err, "Decode(%s)", idx)
	require.NoError(t, Validate(u), "Decode(%s) = %q", idx, u)
	back, ok := Encode(u)
	require.True(t, ok, "Encode(%q)", u)
	require.Equal(t, 0, back.Cmp(idx), "%s: %q encodes back to %s", idx, u, back)
	return u
}

func TestRoundTrip_BandEdges(t *testing.T) {
	one := big.NewInt(1)
	for _, b := range Bands() {
		last := new(big.Int).Add(b.Offset, b.Count)
		last.Sub(last, one)

		first := assertRoundTrip(t, b.Offset)
		assert.Equal(t, strings.Repeat("a", b.Length), first)
		assertRoundTrip(t, new(big.Int).Add(b.Offset, one))
		assertRoundTrip(t, new(big.Int).Sub(last, one))
		u := assertRoundTrip(t, last)
		assert.Len(t, u, b.Length)
	}
}

// usernameLess reports whether a sorts before b in index order.
func usernameLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return SymbolToValue(a[i]) < SymbolToValue(b[i])
		}
	}
	return false
}

func TestRoundTrip_Sequential(t *testing.T) {
	prev := ""
	for i := int64(0); i < 5000; i++ {
		u := assertRoundTrip(t, big.NewInt(i))
		if prev != "" {
			assert.True(t, usernameLess(prev, u), "%q should sort before %q", prev, u)
		}
		prev = u
	}
}

func TestRoundTrip_AcrossBandBoundary(t *testing.T) {
	c7, err := CumulativeBefore(7)
	require.NoError(t, err)
	start := new(big.Int).Sub(c7, big.NewInt(200))

	prev := ""
	for i := int64(0); i < 400; i++ {
		u := assertRoundTrip(t, new(big.Int).Add(start, big.NewInt(i)))
		if prev != "" {
			assert.True(t, usernameLess(prev, u), "%q should sort before %q", prev, u)
		}
		prev = u
	}
}

func TestRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	total := Total()
	for i := 0; i < 2000; i++ {
		assertRoundTrip(t, new(big.Int).Rand(rng, total))
	}
}

func TestRoundTrip_RandomUsernames(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const alnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	for i := 0; i < 2000; i++ {
		l := MinLength + rng.Intn(MaxLength-MinLength+1)
		b := make([]byte, l)
		for j := range b {
			b[j] = alnum[rng.Intn(len(alnum))]
		}
		// sprinkle separators at interior positions not next to another one
		for j := 1; j < l-1; j++ {
			if rng.Intn(4) == 0 && b[j-1] != '_' && b[j-1] != '-' {
				b[j] = "_-"[rng.Intn(2)]
			}
		}
		s := string(b)
		require.True(t, IsValid(s), "%q", s)

		idx, ok := Encode(s)
		require.True(t, ok)
		got, err := Decode(idx)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestEncode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "abcde"},
		{"too long", strings.Repeat("a", 31)},
		{"leading underscore", "_abcdef"},
		{"leading hyphen", "-abcdef"},
		{"trailing underscore", "abcdef_"},
		{"trailing hyphen", "abcdef-"},
		{"double underscore", "abc__def"},
		{"double hyphen", "abc--def"},
		{"underscore hyphen", "abc_-def"},
		{"hyphen underscore", "abc-_def"},
		{"uppercase", "Abcdef"},
		{"period", "abc.def"},
		{"space", "abc def"},
		{"plus", "abc+def"},
		{"non-ascii", "abcdéf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := Encode(tt.input)
			assert.False(t, ok)
			assert.Nil(t, idx)
			assert.False(t, IsValid(tt.input))
		})
	}
}

func TestValidate_Reasons(t *testing.T) {
	tests := []struct {
		input  string
		reason Reason
		pos    int
	}{
		{"abc", ReasonTooShort, 3},
		{strings.Repeat("a", 31), ReasonTooLong, 31},
		{"_abcdef", ReasonLeadingSeparator, 0},
		{"abcdef-", ReasonTrailingSeparator, 6},
		{"ab__cd", ReasonAdjacentSeparators, 3},
		{"ab-_cd", ReasonAdjacentSeparators, 3},
		{"abCdef", ReasonInvalidCharacter, 2},
		{"ab.c_-", ReasonInvalidCharacter, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := Validate(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)

			var ie *InvalidError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.reason, ie.Reason)
			assert.Equal(t, tt.pos, ie.Pos)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	for _, s := range []string{
		"aaaaaa",
		"a_b-c_d",
		"john-smith_99",
		strings.Repeat("z", MaxLength),
		strings.Repeat("9-", 14) + "99",
	} {
		assert.NoError(t, Validate(s), "%q", s)
	}
}

func TestInvalidError_Message(t *testing.T) {
	assert.EqualError(t, Validate("ab__cd"), "gmailspace: invalid username: adjacent separators at byte 3")
	assert.EqualError(t, Validate("abc"), "gmailspace: invalid username: too short (length 3)")
	assert.Equal(t, "Reason(99)", Reason(99).String())
}

func BenchmarkDecode(b *testing.B) {
	idx := new(big.Int).Rsh(Total(), 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(idx)
	}
}

func BenchmarkEncode(b *testing.B) {
	s := "john-smith_1990_the_best"
	for i := 0; i < b.N; i++ {
		_, _ = Encode(s)
	}
}
