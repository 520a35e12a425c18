// Package dictionary holds the set of words the corrector accepts.
//
// A Dictionary is built once from a word list and never mutated afterwards,
// so a single value can be shared by any number of goroutines. Extending a
// dictionary with extra words returns a new value.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// numberRe matches digit groups separated by single '.' or ',' characters,
// e.g. "1960", "150,000" or "3.14".
var numberRe = regexp.MustCompile(`^(?:\d+[.,]?)*\d+$`)

// Dictionary is an immutable set of valid words.
type Dictionary struct {
	words map[string]struct{}
}

// LoadError reports a word list that could not be read.
//
// The underlying error can be accessed via errors.Unwrap.
type LoadError struct {
	Source string
	cause  error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load dictionary: %v", e.cause)
	}
	return fmt.Sprintf("load dictionary %s: %v", e.Source, e.cause)
}

func (e *LoadError) Unwrap() error { return e.cause }

// NewLoadError wraps cause as a LoadError for source.
func NewLoadError(source string, cause error) *LoadError {
	return &LoadError{Source: source, cause: cause}
}

// New builds a dictionary from a list of words.
//
// One-letter words other than "a", "A" and "I" are dropped, and every word
// starting with a lowercase letter also contributes its capitalized form,
// since any word may start a sentence.
func New(words []string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words)*2)}
	d.add(words)
	return d
}

// Load reads a newline-delimited word list from r.
func Load(r io.Reader) (*Dictionary, error) {
	var words []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		words = append(words, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, NewLoadError("", err)
	}
	return New(words), nil
}

// With returns a copy of d extended with words. d itself is left untouched.
func (d *Dictionary) With(words ...string) *Dictionary {
	out := &Dictionary{words: make(map[string]struct{}, len(d.words)+len(words)*2)}
	for w := range d.words {
		out.words[w] = struct{}{}
	}
	out.add(words)
	return out
}

func (d *Dictionary) add(words []string) {
	for _, line := range words {
		w := strings.TrimRight(line, "\r")
		if strings.TrimSpace(w) == "" {
			continue
		}
		if utf8.RuneCountInString(w) > 1 || w == "a" || w == "A" || w == "I" {
			d.words[w] = struct{}{}
		}
		first, size := utf8.DecodeRuneInString(w)
		if unicode.IsLower(first) {
			d.words[string(unicode.ToUpper(first))+strings.ToLower(w[size:])] = struct{}{}
		}
	}
}

// Contains reports whether word is in the dictionary. The test is exact and
// case-sensitive.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

// IsValid reports whether token is made of valid words.
//
// Empty tokens, tokens ending with '-' (a word broken across lines), numbers
// and dictionary words are valid outright. Otherwise hyphens are treated as
// spaces and the token is valid when it actually splits and every piece is
// valid on its own, so "tight-lipped" or "as you" pass when their parts do.
func (d *Dictionary) IsValid(token string) bool {
	if token == "" || strings.HasSuffix(token, "-") || numberRe.MatchString(token) || d.Contains(token) {
		return true
	}
	pieces := strings.Fields(strings.ReplaceAll(token, "-", " "))
	if len(pieces) == 0 || pieces[0] == token {
		return false
	}
	for _, p := range pieces {
		if !d.IsValid(p) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct words, capitalized variants included.
func (d *Dictionary) Len() int { return len(d.words) }

// Words returns every word in sorted order.
func (d *Dictionary) Words() []string {
	out := make([]string, 0, len(d.words))
	for w := range d.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
