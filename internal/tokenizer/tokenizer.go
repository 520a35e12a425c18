// Package tokenizer finds the word and number tokens of a text.
//
// Every rune outside the token grammar is separator text. Tokens carry byte
// offsets, so s[t.Start:t.End] == t.Text always holds and a text can be
// rebuilt exactly by replacing tokens and copying separators through.
//
// All functions are safe for concurrent use by multiple goroutines.
package tokenizer

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// The grammar is an ordered alternation and the first alternative that
// matches wins. WORD already covers digits, so NUMBER only documents the
// accepted numeric forms.
const (
	wordPattern   = `(?:[\p{L}\p{Nd}_'-]+)`
	numberPattern = `(?:(?:\d+[.,]?)*\d+)`
)

var tokenRe = regexp.MustCompile(wordPattern + "|" + numberPattern)

// Token is a maximal run of text matching the token grammar.
type Token struct {
	Text  string // The token text
	Start int    // Byte offset in the original string (inclusive)
	End   int    // Byte offset in the original string (exclusive)
}

// String returns a debug representation, e.g. "won't"[4:9].
func (t Token) String() string {
	return fmt.Sprintf("%q[%d:%d]", t.Text, t.Start, t.End)
}

// Tokens returns every token of s in order.
func Tokens(s string) []Token {
	locs := tokenRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Token, len(locs))
	for i, loc := range locs {
		out[i] = Token{Text: s[loc[0]:loc[1]], Start: loc[0], End: loc[1]}
	}
	return out
}

// All yields the tokens of s lazily. The sequence can be ranged over any
// number of times.
func All(s string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for pos := 0; pos < len(s); {
			loc := tokenRe.FindStringIndex(s[pos:])
			if loc == nil {
				return
			}
			start, end := pos+loc[0], pos+loc[1]
			if !yield(Token{Text: s[start:end], Start: start, End: end}) {
				return
			}
			pos = end
		}
	}
}

// IsToken reports whether s is exactly one token.
func IsToken(s string) bool {
	loc := tokenRe.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// Replace returns a copy of s with every token replaced by fn(token).
// Separator text is copied unchanged.
func Replace(s string, fn func(Token) string) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for t := range All(s) {
		b.WriteString(s[last:t.Start])
		b.WriteString(fn(t))
		last = t.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// Assemble rebuilds s with tokens[i] replaced by repl[i]. tokens must come
// from Tokens(s) and repl must have the same length.
func Assemble(s string, tokens []Token, repl []string) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for i, t := range tokens {
		b.WriteString(s[last:t.Start])
		b.WriteString(repl[i])
		last = t.End
	}
	b.WriteString(s[last:])
	return b.String()
}
