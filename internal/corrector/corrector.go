// Package corrector repairs single tokens damaged by OCR noise.
//
// A token that is not a valid word is searched outward one edit at a time:
// every round applies one more edit to every piece of every hypothesis from
// the previous round, and the first hypothesis made only of valid words wins.
// The generation order is fixed, so results are deterministic.
package corrector

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"textcleanup/internal/dictionary"
	"textcleanup/pkg/options"
)

// SpellCorrector corrects tokens against a shared, read-only dictionary.
// It is safe for concurrent use.
type SpellCorrector struct {
	config options.CorrectOptions
	dict   *dictionary.Dictionary
	edits  Edits
	stats  counters
}

// NewSpellCorrector returns a corrector for dict configured by opts on top of
// options.DefaultOptions.
func NewSpellCorrector(dict *dictionary.Dictionary, opts ...options.Options) *SpellCorrector {
	cfg := options.Resolve(opts...)
	return &SpellCorrector{
		config: cfg,
		dict:   dict,
		edits: Edits{
			Space:        cfg.AllowSpace,
			Substitution: cfg.Substitution,
			Deletion:     cfg.Deletion,
			Insertion:    cfg.Insertion,
		},
	}
}

// Dictionary returns the dictionary sc checks against.
func (sc *SpellCorrector) Dictionary() *dictionary.Dictionary { return sc.dict }

// Config returns the resolved options.
func (sc *SpellCorrector) Config() options.CorrectOptions { return sc.config }

// Stats returns a snapshot of the counters accumulated so far.
func (sc *SpellCorrector) Stats() Stats { return sc.stats.snapshot() }

// Correct returns the first valid correction of token, or token itself with
// Accepted false if none is found within the configured number of edits.
func (sc *SpellCorrector) Correct(token string) Result {
	sc.stats.checked.Add(1)
	res := sc.correct(token)
	switch {
	case !res.Accepted:
		sc.stats.failed.Add(1)
	case res.Text == token:
		sc.stats.unchanged.Add(1)
	default:
		sc.stats.corrected.Add(1)
	}
	return res
}

func (sc *SpellCorrector) correct(token string) Result {
	if token == "" {
		return Result{Accepted: true, Text: token}
	}
	first, size := utf8.DecodeRuneInString(token)
	rest := token[size:]

	// "Iam": the space after a one-letter word was lost.
	if sc.config.AllowSpace && (first == 'I' || first == 'A') && rest != "" && sc.dict.IsValid(rest) {
		return Result{Accepted: true, Text: string(first) + " " + rest}
	}

	if sc.config.AvoidCapitalized && unicode.IsUpper(first) {
		return Result{Accepted: true, Text: token}
	}

	if sc.dict.IsValid(token) {
		return Result{Accepted: true, Text: token}
	}

	frontier := []Candidate{{token}}
	for round := 1; round <= sc.config.MaxErrors; round++ {
		last := round == sc.config.MaxErrors
		var next []Candidate
		for _, comp := range frontier {
			for i, piece := range comp {
				for cand := range OneError(piece, sc.edits) {
					sc.stats.candidates.Add(1)
					c := splice(comp, i, cand)
					if sc.accepts(c) {
						return Result{Accepted: true, Text: strings.Join(c, " ")}
					}
					if !last {
						next = append(next, c)
					}
				}
			}
		}
		frontier = next
	}
	return Result{Accepted: false, Text: token}
}

// accepts reports whether every word of c is valid. The pieces are checked
// joined, so a trailing hyphen only excuses the final piece.
func (sc *SpellCorrector) accepts(c Candidate) bool {
	if len(c) == 1 {
		return sc.dict.IsValid(c[0])
	}
	return sc.dict.IsValid(strings.Join(c, " "))
}

// splice returns a new composition with comp[i] replaced by the pieces of cand.
func splice(comp Candidate, i int, cand Candidate) Candidate {
	out := make(Candidate, 0, len(comp)-1+len(cand))
	out = append(out, comp[:i]...)
	out = append(out, cand...)
	return append(out, comp[i+1:]...)
}
