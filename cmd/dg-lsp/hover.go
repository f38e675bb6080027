package main

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/signadot/docgraph/ir"
	"github.com/signadot/docgraph/schema"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	d := s.docs.get(string(params.TextDocument.URI))
	if d == nil || d.doc == nil || d.locator == nil {
		return nil, nil
	}
	n, ok := nodeAt(d, int(params.Position.Line)+1, int(params.Position.Character)+1)
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText(n),
		},
	}, nil
}

// nodeAt finds the deepest node located on line whose column is closest to
// col. line and col are 1-based.
func nodeAt(d *document, line, col int) (ir.Node, bool) {
	var (
		best     ir.Node
		bestDist = -1
	)
	var visit func(ir.Node)
	visit = func(n ir.Node) {
		if l, c, err := d.locator.Locate(n.WirePath()); err == nil && l == line {
			if dist := abs(c - col); bestDist < 0 || dist <= bestDist {
				best, bestDist = n, dist
			}
		}
		// undecodable children are reported as diagnostics
		kids, _ := n.Children()
		for _, k := range kids {
			visit(k)
		}
	}
	visit(d.doc.Root())
	return best, bestDist >= 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func hoverText(n ir.Node) string {
	parts := []string{fmt.Sprintf("**Path:** `%s`", n.Path())}
	typ := n.Kind().String()
	if name := n.Type().Name; name != "" {
		typ += " `" + name + "`"
	}
	parts = append(parts, "**Type:** "+typ)
	if n.RefCount() != 0 {
		parts = append(parts, fmt.Sprintf("**Referenced:** %d", n.RefCount()))
	}
	switch n.Kind() {
	case schema.StateGroupKind:
		if sg, err := n.StateGroup(); err == nil {
			parts = append(parts, fmt.Sprintf("**Variant:** `%s`", sg.Variant()))
		}
	case schema.ReferenceKind:
		if r, err := n.Reference(); err == nil && r.State() == ir.RefResolved {
			if t, err := r.Target(); err == nil {
				parts = append(parts, fmt.Sprintf("**Target:** `%s`", t.Path()))
			}
		}
	}
	return strings.Join(parts, "\n\n")
}
