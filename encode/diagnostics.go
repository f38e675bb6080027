package encode

import (
	"fmt"
	"io"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/ir"
)

// Location is the source position of a diagnostic. Line and Col are
// 1-based and zero when the position is unknown.
type Location struct {
	File      string
	Line, Col int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Locate finds the position of d using l. l may be nil, for instance for
// binary payloads, in which case only the file is known.
func Locate(file string, l *format.Locator, d ir.Diagnostic) Location {
	loc := Location{File: file}
	if l == nil {
		return loc
	}
	line, col, err := l.Locate(d.Wire)
	if err != nil {
		return loc
	}
	loc.Line, loc.Col = line, col
	return loc
}

// Diagnostics writes ds to w, one per line, as
//
//	file:line:col: phase: message
func Diagnostics(w io.Writer, file string, src []byte, ds ir.Diagnostics, opts ...EncodeOption) error {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	var l *format.Locator
	if src != nil {
		// unparsable sources only give file names
		l, _ = format.NewLocator(src)
	}
	for _, d := range ds {
		loc := Locate(file, l, d)
		line := es.color(noKind, LocationColor, loc.String()+":") + " " +
			d.Phase.String() + ": " + es.color(noKind, ErrorColor, d.Err.Error()) + "\n"
		if err := writeString(w, line); err != nil {
			return err
		}
	}
	return nil
}
