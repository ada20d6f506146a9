package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gmailspace "github.com/thehowl/gmailspace"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	goleak.VerifyTestMain(m)
}

// run executes the CLI against a config path that does not exist, so every
// test starts from the defaults.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runInput(t, "", args...)
}

func runInput(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"gmailspace", "--config", filepath.Join(t.TempDir(), "none.toml"), "--log-level", "error"}, args...)
	err = newApp(strings.NewReader(stdin), &out, &errOut).Run(full)
	return out.String(), errOut.String(), err
}

func TestDecode(t *testing.T) {
	out, _, err := run(t, "decode", "0", "36", "2680667136")
	require.NoError(t, err)
	assert.Equal(t, "0\taaaaaa\n36\taaaaba\n2680667136\taaaaaaa\n", out)
}

func TestDecode_JSON(t *testing.T) {
	out, _, err := run(t, "--json", "decode", "3344929")
	require.NoError(t, err)

	var e entryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, entryOutput{Index: "3344929", Username: "ab0xyz"}, e)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", []string{"decode"}, "at least one index"},
		{"not a number", []string{"decode", "ten"}, `invalid index "ten"`},
		{"out of range", []string{"decode", gmailspace.Total().String()}, "index out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDecode_Stdin(t *testing.T) {
	out, _, err := runInput(t, "0\n1 36\n", "decode")
	require.NoError(t, err)
	assert.Equal(t, "0\taaaaaa\n1\taaaaab\n36\taaaaba\n", out)

	out, _, err = runInput(t, "3344929\n", "decode", "-")
	require.NoError(t, err)
	assert.Equal(t, "3344929\tab0xyz\n", out)
}

func TestEncode(t *testing.T) {
	out, _, err := run(t, "encode", "ab0xyz", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "3344929\tab0xyz\n2072669\tabcdef\n", out)
}

func TestEncode_Normalize(t *testing.T) {
	out, _, err := run(t, "encode", "--normalize", "AB0.XYZ@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "3344929\tab0xyz\n", out)
}

func TestEncode_Invalid(t *testing.T) {
	out, errOut, err := run(t, "encode", "ab0xyz", "-abcde")
	assert.EqualError(t, err, "1 of 2 usernames invalid")
	assert.Equal(t, "3344929\tab0xyz\n", out, "valid names are still printed")
	assert.Contains(t, errOut, "-abcde: gmailspace: invalid username: starts with a separator at byte 0")
}

func TestEncode_Stdin(t *testing.T) {
	out, _, err := runInput(t, "abcdef\n\nzzzzzz\n", "encode")
	require.NoError(t, err)
	assert.Equal(t, "2072669\tabcdef\n1912023925\tzzzzzz\n", out)
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "check", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "abcdef: valid (index 2072669)\n", out)

	out, _, err = run(t, "check", "ab__cd")
	assert.EqualError(t, err, "1 of 1 usernames invalid")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ab__cd: adjacent separators at byte 3", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  try ab_cd0 (index "), lines[1])
}

func TestCheck_JSON(t *testing.T) {
	out, _, err := run(t, "--json", "check", "abc")
	require.Error(t, err)

	var c checkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.False(t, c.Valid)
	assert.Equal(t, "too short", c.Reason)
	require.NotNil(t, c.Position)
	assert.Equal(t, 3, *c.Position)
	require.Len(t, c.Suggestions, 1)
	assert.Equal(t, "abc000", c.Suggestions[0].Username)
}

func TestPage(t *testing.T) {
	out, errOut, err := run(t, "page", "--start", "36", "--count", "2")
	require.NoError(t, err)
	assert.Equal(t, "36\taaaaba\n37\taaaabb\n", out)
	assert.Equal(t, "next: 16\n", errOut)

	out, _, err = run(t, "page", "--cursor", "16", "--count", "1")
	require.NoError(t, err)
	assert.Equal(t, "38\taaaabc\n", out)
}

func TestPage_DefaultCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gmailspace.toml")
	require.NoError(t, os.WriteFile(path, []byte("[page]\ndefault_size = 3\n"), 0o644))

	var out, errOut bytes.Buffer
	err := newApp(strings.NewReader(""), &out, &errOut).Run([]string{"gmailspace", "--config", path, "page"})
	require.NoError(t, err)
	assert.Equal(t, "0\taaaaaa\n1\taaaaab\n2\taaaaac\n", out.String())
}

func TestPage_BadCursor(t *testing.T) {
	_, _, err := run(t, "page", "--cursor", "u")
	assert.ErrorContains(t, err, "invalid cursor")
}

func TestRandom(t *testing.T) {
	out, _, err := run(t, "random", "--count", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		idx, name, ok := strings.Cut(line, "\t")
		require.True(t, ok, line)
		got, valid := gmailspace.Encode(name)
		require.True(t, valid, name)
		assert.Equal(t, idx, got.String())
	}
}

func TestStats(t *testing.T) {
	out, _, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total:    "+gmailspace.Total().String())
	assert.Contains(t, out, "2680667136")

	out, _, err = run(t, "--json", "stats")
	require.NoError(t, err)
	var st statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Len(t, st.Bands, gmailspace.BandCount)
	assert.Equal(t, bandOutput{Length: 6, Offset: "0", Count: "2680667136"}, st.Bands[0])
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmailspace.toml")
	require.NoError(t, os.WriteFile(path, []byte("[page]\nmax_size = -1\n"), 0o644))

	var out, errOut bytes.Buffer
	err := newApp(strings.NewReader(""), &out, &errOut).Run([]string{"gmailspace", "--config", path, "stats"})
	assert.ErrorContains(t, err, "load config "+path)
}

func TestBadLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "stats")
	assert.ErrorContains(t, err, "init logger")
}
