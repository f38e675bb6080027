package libdiff

import (
	"strings"

	"github.com/signadot/docgraph/format"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Text returns a line diff of from and to, each line prefixed by "-", "+"
// or " ". It returns "" when they are equal.
func Text(from, to string) string {
	if from == to {
		return ""
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	buf := &strings.Builder{}
	for _, d := range diffs {
		pfx := " "
		switch d.Type {
		case diffpatch.DiffDelete:
			pfx = "-"
		case diffpatch.DiffInsert:
			pfx = "+"
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			buf.WriteString(pfx + ln)
			if !strings.HasSuffix(ln, "\n") {
				buf.WriteString("\n")
			}
		}
	}
	return buf.String()
}

// Payloads encodes from and to in f and returns their line diff.
func Payloads(from, to any, f format.Format) (string, error) {
	a, err := format.Marshal(from, f)
	if err != nil {
		return "", err
	}
	b, err := format.Marshal(to, f)
	if err != nil {
		return "", err
	}
	return Text(string(a), string(b)), nil
}
