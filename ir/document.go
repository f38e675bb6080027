package ir

import (
	"github.com/signadot/docgraph/debug"
	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

// ID addresses a node in the arena of its Document.
type ID int32

const NoID ID = -1

// Document owns every node decoded from one payload. Nodes live in a flat
// table; parent links and reference targets are table indices.
type Document struct {
	schema  *schema.Schema
	entries []*entry
	root    ID

	lazy    bool
	params  map[string]Node
	onError func(Diagnostic)

	queue   []ID // references, in decode order
	checked []ID // records carrying checks, in decode order

	diags    Diagnostics
	phase    Phase
	resolved bool
}

type entry struct {
	typ       *schema.Type
	parent    ID
	key       string // field, dictionary key or variant of the parent
	index     int    // position in a parent set
	refs      int
	destroyed bool

	cells   []*cell        // record fields, dictionary entries or the state group child
	keys    []string       // dictionary keys, parallel to cells
	pos     map[string]int // dictionary key -> position in keys
	members []ID           // set members
	variant string
	bare    bool // state group given as a bare variant name
	ref     *refState
	value   any // scalars
}

type cellState int

const (
	unforced cellState = iota
	forcing
	forced
)

// cell holds one child slot of a container. Eager decoding forces every
// cell immediately; lazy decoding leaves the raw payload until first access.
type cell struct {
	state cellState
	typ   *schema.Type
	key   string
	raw   any
	id    ID
	err   error
}

type decodeOpts struct {
	lazy    bool
	params  map[string]Node
	onError func(Diagnostic)
}

type DecodeOption func(*decodeOpts)

// Lazy defers decoding of record fields, state group payloads and
// dictionary entries until they are first accessed. Reference resolution
// and checks are then left to the first Target call or to Resolve.
func Lazy(v bool) DecodeOption { return func(o *decodeOpts) { o.lazy = v } }

// Param provides a dictionary, possibly from another document, to
// references whose first dictionary name is not found on any ancestor.
func Param(name string, n Node) DecodeOption {
	return func(o *decodeOpts) {
		if o.params == nil {
			o.params = map[string]Node{}
		}
		o.params[name] = n
	}
}

// OnError is called with every diagnostic as it is found.
func OnError(f func(Diagnostic)) DecodeOption { return func(o *decodeOpts) { o.onError = f } }

// Decode builds the document for raw according to s.
//
// In eager mode any shape error yields a nil document; otherwise the
// document is resolved before it is returned and the diagnostics hold every
// reference and check failure. In lazy mode only the root record's shape is
// checked; the caller forces the rest through accessors or Resolve.
func Decode(s *schema.Schema, raw any, opts ...DecodeOption) (*Document, Diagnostics) {
	o := &decodeOpts{}
	for _, f := range opts {
		f(o)
	}
	d := &Document{
		schema:  s,
		root:    NoID,
		lazy:    o.lazy,
		params:  o.params,
		onError: o.onError,
	}
	if err := s.Compile(); err != nil {
		d.report(Diagnostic{Phase: Decoding, Err: err})
		return nil, d.diags
	}
	norm, err := format.Normalize(raw)
	if err != nil {
		d.report(Diagnostic{Phase: Decoding, Err: err})
		return nil, d.diags
	}
	if debug.Decode() {
		debug.Logf("decode %s lazy=%t", s.Root, d.lazy)
	}
	c := &cell{typ: s.RootType(), raw: norm}
	if _, err := d.force(NoID, c); err != nil {
		return nil, d.diags
	}
	d.root = c.id
	if !d.lazy {
		d.Resolve()
	}
	return d, d.diags
}

func (d *Document) Schema() *schema.Schema { return d.schema }
func (d *Document) IsLazy() bool           { return d.lazy }
func (d *Document) Phase() Phase           { return d.phase }

// Root returns the root record.
func (d *Document) Root() Node {
	return Node{doc: d, id: d.root}
}

// Diagnostics returns everything reported so far, including failures of
// lazy accesses.
func (d *Document) Diagnostics() Diagnostics {
	return d.diags
}

// Len is the number of nodes materialized so far.
func (d *Document) Len() int {
	return len(d.entries)
}

// Node returns the handle for id, or an invalid Node if id is out of range.
func (d *Document) Node(id ID) Node {
	if id < 0 || int(id) >= len(d.entries) {
		return Node{}
	}
	return Node{doc: d, id: id}
}

func (d *Document) report(diag Diagnostic) {
	d.diags = append(d.diags, diag)
	if d.onError != nil {
		d.onError(diag)
	}
}

func (d *Document) alloc(e *entry) ID {
	id := ID(len(d.entries))
	d.entries = append(d.entries, e)
	return id
}

// force materializes the child in c under parent, at most once.
func (d *Document) force(parent ID, c *cell) (ID, error) {
	switch c.state {
	case forced:
		return c.id, c.err
	case forcing:
		return NoID, errInternal
	}
	if parent != NoID && d.entries[parent].destroyed {
		return NoID, ErrDestroyed
	}
	if debug.Lazy() && d.lazy {
		debug.Logf("force %s", at(d.childPath(parent, c.key, 0)))
	}
	c.state = forcing
	start := len(d.entries)
	id, err := d.decodeValue(parent, c.key, 0, c.typ, c.raw)
	c.state = forced
	if err != nil {
		for i := start; i < len(d.entries); i++ {
			d.entries[i].destroyed = true
		}
		c.id, c.err = NoID, err
		return NoID, err
	}
	c.id, c.raw = id, nil
	return id, nil
}
