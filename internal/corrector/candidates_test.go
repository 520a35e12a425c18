package corrector

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(word string, e Edits) []string {
	var out []string
	for c := range OneError(word, e) {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

func TestPreferred(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    rune
		want string
	}{
		{'i', "jli!1t"},
		{'1', "jli!1t"},
		{'o', "aceo"},
		{'O', "QO0"},
		{'B', "3BBERPD"},
		{'h', "hmn"},
		{'H', "MNH"},
		{'x', ""},
		{'I', ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Preferred(tt.r), "Preferred(%q)", tt.r)
	}
}

func TestErrorGroupsIsACopy(t *testing.T) {
	t.Parallel()

	g := ErrorGroups()
	require.NotEmpty(t, g)
	g[0] = "changed"
	assert.Equal(t, "jli!1t", ErrorGroups()[0])
}

func TestOneErrorUnhyphenateFirst(t *testing.T) {
	t.Parallel()

	got := collect("mini-mize", Edits{})
	assert.Equal(t, []string{"minimize"}, got)

	got = collect("a-b", AllEdits)
	require.NotEmpty(t, got)
	assert.Equal(t, "ab", got[0])
}

func TestOneErrorSpaces(t *testing.T) {
	t.Parallel()

	var pieces []Candidate
	for c := range OneError("abcd", Edits{Space: true}) {
		pieces = append(pieces, c)
	}
	assert.Equal(t, []Candidate{{"a", "bcd"}, {"ab", "cd"}, {"abc", "d"}}, pieces)
}

func TestOneErrorSubstitutionOrder(t *testing.T) {
	t.Parallel()

	got := collect("ab", Edits{Substitution: true})

	// Position 0: the "aceo" group first, then the alphabet minus 'a'.
	assert.Equal(t, []string{"cb", "eb", "ob", "bb", "cb", "db"}, got[:6])
	// Position 1 only starts after position 0 is exhausted.
	assert.Equal(t, "zb", got[3+25-1])
	assert.Equal(t, "aa", got[3+25])
	assert.Len(t, got, 3+25+25)
}

func TestOneErrorSubstitutionCase(t *testing.T) {
	t.Parallel()

	got := collect("Q", Edits{Substitution: true})
	// "QO0" group, then A-Z without Q.
	assert.Equal(t, []string{"O", "0", "A", "B"}, got[:4])
	assert.NotContains(t, got, "a")
	assert.Len(t, got, 2+25)

	got = collect("1", Edits{Substitution: true})
	assert.Equal(t, []string{"j", "l", "i", "!", "t", "a"}, got[:6])
}

func TestOneErrorDeletion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"bc", "ac", "ab"}, collect("abc", Edits{Deletion: true}))
	assert.Empty(t, collect("a", Edits{Deletion: true}))
}

func TestOneErrorInsertion(t *testing.T) {
	t.Parallel()

	got := collect("ab", Edits{Insertion: true})
	require.Len(t, got, 3*26)
	assert.Equal(t, "aab", got[0])
	assert.Equal(t, "zab", got[25])
	assert.Equal(t, "aab", got[26])
	assert.Equal(t, "abz", got[len(got)-1])
}

func TestOneErrorKindOrder(t *testing.T) {
	t.Parallel()

	got := collect("xq", AllEdits)
	// One split, 2*25 substitutions, 2 deletions, 3*26 insertions.
	require.Len(t, got, 1+50+2+78)
	assert.Equal(t, "x q", got[0])
	assert.Equal(t, "aq", got[1])
	assert.Equal(t, "q", got[51])
	assert.Equal(t, "x", got[52])
	assert.Equal(t, "axq", got[53])
}

func TestOneErrorCount(t *testing.T) {
	t.Parallel()

	// No hyphen and no preferred groups: (n-1) + 25n + n + 26(n+1).
	for _, w := range []string{"xq", "xqz", "vwxzqk"} {
		n := len(w)
		assert.Len(t, collect(w, AllEdits), (n-1)+25*n+n+26*(n+1), w)
	}
}

func TestOneErrorRunes(t *testing.T) {
	t.Parallel()

	for _, c := range collect("café", AllEdits) {
		assert.True(t, strings.ToValidUTF8(c, "?") == c, "invalid UTF-8 in %q", c)
	}
	assert.True(t, slices.Contains(collect("café", Edits{Deletion: true}), "caf"))
}

func TestOneErrorStopsEarly(t *testing.T) {
	t.Parallel()

	n := 0
	for range OneError("elephant", AllEdits) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
