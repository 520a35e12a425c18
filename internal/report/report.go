// Package report describes what a cleanup pass changed.
package report

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a change.
type Op string

const (
	Delete Op = "delete"
	Insert Op = "insert"
)

// Change is one deleted or inserted run. Offset is the byte offset in
// the original text where the run was removed or added.
type Change struct {
	Op     Op     `json:"op"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

func diffs(original, cleaned string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(original, cleaned, false)
	return dmp.DiffCleanupSemantic(d)
}

// Diff renders the difference between original and cleaned with ANSI
// colors: deletions red, insertions green.
func Diff(original, cleaned string) string {
	return diffmatchpatch.New().DiffPrettyText(diffs(original, cleaned))
}

// Changes lists the runs deleted from original and inserted into it.
func Changes(original, cleaned string) []Change {
	var out []Change
	pos := 0
	for _, d := range diffs(original, cleaned) {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			out = append(out, Change{Op: Delete, Offset: pos, Text: d.Text})
			pos += len(d.Text)
		case diffmatchpatch.DiffInsert:
			out = append(out, Change{Op: Insert, Offset: pos, Text: d.Text})
		}
	}
	return out
}
