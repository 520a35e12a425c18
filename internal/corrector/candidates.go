package corrector

import (
	"iter"
	"strings"
)

// errorGroups are clusters of characters OCR commonly confuses. Substitutions
// inside a character's groups are tried before the rest of the alphabet.
var errorGroups = []string{
	"jli!1t",
	"aceo",
	"3B",
	"hmn",
	"yug",
	"MNH",
	"BERPD",
	"QO0",
}

// preferred maps a character to the concatenation of every group holding it.
var preferred = func() map[rune]string {
	m := make(map[rune]string)
	for _, g := range errorGroups {
		for _, r := range g {
			m[r] += g
		}
	}
	return m
}()

const (
	lowerAlphabet = "abcdefghijklmnopqrstuvwxyz"
	upperAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Candidate is one hypothesis for a piece of text: a single string, or two
// strings when a space was inserted.
type Candidate []string

// Edits selects the kinds of edit OneError generates. Hyphen removal is
// always generated.
type Edits struct {
	Space        bool
	Substitution bool
	Deletion     bool
	Insertion    bool
}

// AllEdits enables every edit kind.
var AllEdits = Edits{Space: true, Substitution: true, Deletion: true, Insertion: true}

// ErrorGroups returns the confusable character clusters in priority order.
func ErrorGroups() []string {
	return append([]string(nil), errorGroups...)
}

// Preferred returns the substitution group string for r, or "" if r belongs
// to no group.
func Preferred(r rune) string {
	return preferred[r]
}

func alphabetFor(r rune) string {
	if r >= 'A' && r <= 'Z' {
		return upperAlphabet
	}
	return lowerAlphabet
}

// OneError yields the variants of word that are one edit away, in the order
// they should be tried:
//
//  1. word without its hyphens, if it has any
//  2. a space inserted at each split point
//  3. for each position: substitutions from the preferred groups, then the
//     rest of the position's alphabet
//  4. each single-character deletion
//  5. each lowercase letter inserted at each position, end included
//
// Edits work on runes. Variants that would be empty are skipped.
func OneError(word string, e Edits) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if strings.Contains(word, "-") {
			if w := strings.ReplaceAll(word, "-", ""); w != "" {
				if !yield(Candidate{w}) {
					return
				}
			}
		}

		rs := []rune(word)
		n := len(rs)

		if e.Space {
			for i := 1; i < n; i++ {
				if !yield(Candidate{string(rs[:i]), string(rs[i:])}) {
					return
				}
			}
		}

		if e.Substitution {
			buf := make([]rune, n)
			for i, r := range rs {
				for _, alt := range [2]string{preferred[r], alphabetFor(r)} {
					for _, c := range alt {
						if c == r {
							continue
						}
						copy(buf, rs)
						buf[i] = c
						if !yield(Candidate{string(buf)}) {
							return
						}
					}
				}
			}
		}

		if e.Deletion && n > 1 {
			for i := range rs {
				if !yield(Candidate{string(rs[:i]) + string(rs[i+1:])}) {
					return
				}
			}
		}

		if e.Insertion {
			for i := 0; i <= n; i++ {
				head, tail := string(rs[:i]), string(rs[i:])
				for _, c := range lowerAlphabet {
					if !yield(Candidate{head + string(c) + tail}) {
						return
					}
				}
			}
		}
	}
}
