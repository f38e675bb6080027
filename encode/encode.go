package encode

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/docgraph/ir"
	"github.com/signadot/docgraph/schema"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, maxDepth, indent int
	refs, counts            bool

	Color func(schema.Kind, ColorAttr, string) string
}

// Tree writes the subgraph rooted at n to w, one node per line. Lazy cells
// below n are forced. References are never resolved by rendering.
func Tree(n ir.Node, w io.Writer, opts ...EncodeOption) error {
	if !n.Valid() {
		return fmt.Errorf("%w: invalid node", ErrEncoding)
	}
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	label := n.Path()
	if n.IsRoot() {
		label = n.Document().Schema().Name
		if label == "" {
			label = "<root>"
		}
	}
	return encode(n, label, w, es)
}

func (es *EncState) color(k schema.Kind, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, a, s)
}

func encode(n ir.Node, label string, w io.Writer, es *EncState) error {
	k := n.Kind()
	line := strings.Repeat(" ", es.indent*es.depth) + es.color(k, LabelColor, label)
	var kids []ir.Node
	var kidsErr error
	switch k {
	case schema.RecordKind:
		kids, kidsErr = n.Children()
	case schema.StateGroupKind:
		sg, _ := n.StateGroup()
		line += es.color(k, SepColor, ": ") + es.color(k, VariantColor, "?"+sg.Variant())
		child, err := sg.Child()
		switch {
		case err != nil:
			kidsErr = err
		case child.Kind() == schema.RecordKind:
			kids, kidsErr = child.Children()
		default:
			kids = []ir.Node{child}
		}
	case schema.DictionaryKind:
		dict, _ := n.Dictionary()
		line += es.color(k, SepColor, ": ") + es.color(k, CountColor, fmt.Sprintf("{%d}", dict.Len()))
		kids, kidsErr = n.Children()
	case schema.SetKind:
		set, _ := n.Set()
		line += es.color(k, SepColor, ": ") + es.color(k, CountColor, fmt.Sprintf("<%d>", set.Len()))
		kids, kidsErr = n.Children()
	case schema.ReferenceKind:
		ref, _ := n.Reference()
		line += es.color(k, SepColor, " -> ") + es.color(k, ValueColor, strings.Join(ref.Entries(), "/"))
		if es.refs {
			line += refSuffix(ref, es)
		}
	default:
		v, err := n.Value()
		if err != nil {
			return err
		}
		line += es.color(k, SepColor, ": ") + es.color(k, ValueColor, scalar(v))
	}
	if es.counts && n.RefCount() > 0 {
		line += es.color(k, CountColor, fmt.Sprintf(" #%d", n.RefCount()))
	}
	if n.Destroyed() {
		line += es.color(k, ErrorColor, " (destroyed)")
		kids, kidsErr = nil, nil
	}
	if err := writeString(w, line+"\n"); err != nil {
		return err
	}
	if es.maxDepth > 0 && es.depth >= es.maxDepth {
		if len(kids) != 0 {
			return writeString(w, strings.Repeat(" ", es.indent*(es.depth+1))+"...\n")
		}
		return nil
	}
	es.depth++
	defer func() { es.depth-- }()
	for _, kid := range kids {
		if err := encode(kid, childLabel(n, kid), w, es); err != nil {
			return err
		}
	}
	if kidsErr != nil {
		pfx := strings.Repeat(" ", es.indent*es.depth) + "!! "
		for _, ln := range strings.Split(kidsErr.Error(), "\n") {
			if err := writeString(w, pfx+es.color(k, ErrorColor, ln)+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func refSuffix(ref ir.Reference, es *EncState) string {
	k := schema.ReferenceKind
	switch ref.State() {
	case ir.RefResolved:
		// resolved references return their memoized target
		target, err := ref.Target()
		if err != nil {
			return es.color(k, ErrorColor, " !! "+err.Error())
		}
		return es.color(k, SepColor, " => ") + es.color(k, LabelColor, target.String())
	case ir.RefFailed:
		return es.color(k, ErrorColor, " !! "+ref.Err().Error())
	default:
		return es.color(k, CountColor, " ("+ref.State().String()+")")
	}
}

// childLabel is the last step of kid's path below parent, without the
// leading dot of record fields.
func childLabel(parent, kid ir.Node) string {
	if parent.Kind() == schema.StateGroupKind {
		if sg, err := parent.StateGroup(); err == nil {
			if c, err := sg.Child(); err == nil && c.Kind() == schema.RecordKind {
				parent = c
			}
		}
	}
	l := strings.TrimPrefix(kid.Path(), parent.Path())
	if parent.Kind() == schema.RecordKind {
		l = strings.TrimPrefix(l, ".")
	}
	return l
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
