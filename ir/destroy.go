package ir

// Destroy marks n and its materialized descendants as destroyed and detaches
// their resolved references. Destroyed nodes stay in their containers; the
// resolve pass skips them and their unforced children can no longer be
// forced.
func (n Node) Destroy() {
	d := n.doc
	e := d.entries[n.id]
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.ref != nil {
		Reference{n}.Detach()
	}
	for _, c := range e.cells {
		if c.state == forced && c.err == nil {
			n.with(c.id).Destroy()
		}
	}
	for _, m := range e.members {
		n.with(m).Destroy()
	}
}
