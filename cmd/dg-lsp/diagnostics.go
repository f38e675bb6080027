package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/signadot/docgraph/config"
	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/ir"
	"github.com/signadot/docgraph/schema"
)

const diagSource = "docgraph"

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	uri     string
	content string
	version int32

	// doc and locator are nil when the content could not be decoded.
	doc     *ir.Document
	locator *format.Locator
	diags   []protocol.Diagnostic
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(d *document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[d.uri] = d
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

// analyze decodes content as the document at u. Documents that no project
// config maps to a schema get no diagnostics.
func analyze(reg *schema.Registry, u, content string, version int32) *document {
	d := &document{uri: u, content: content, version: version, diags: []protocol.Diagnostic{}}
	path, ok := filename(u)
	if !ok {
		return d
	}
	s, f, entry, err := lookup(reg, path)
	if err != nil {
		d.diags = append(d.diags, diagAt(0, 0, err.Error()))
		return d
	}
	if s == nil {
		theLog.Debug("no schema", "path", path)
		return d
	}
	raw, err := format.Parse([]byte(content), f)
	if err != nil {
		d.diags = append(d.diags, diagAt(0, 0, err.Error()))
		return d
	}
	doc, diags := ir.Decode(s, raw, ir.Lazy(entry.Lazy))
	if doc != nil && doc.IsLazy() {
		doc.Resolve()
		diags = doc.Diagnostics()
	}
	d.doc = doc
	if f.IsText() {
		d.locator, _ = format.NewLocator([]byte(content))
	}
	for _, diag := range diags {
		line, col := 1, 1
		if d.locator != nil {
			if l, c, err := d.locator.Locate(diag.Wire); err == nil {
				line, col = l, c
			}
		}
		d.diags = append(d.diags, diagAt(line-1, col-1, diag.Phase.String()+": "+diag.Err.Error()))
	}
	theLog.Debug("analyzed", "path", path, "diagnostics", len(d.diags))
	return d
}

func filename(u string) (string, bool) {
	if !strings.HasPrefix(u, "file://") {
		return "", false
	}
	return uri.URI(u).Filename(), true
}

// lookup finds the schema and format for path from the nearest project
// config.
func lookup(reg *schema.Registry, path string) (*schema.Schema, format.Format, *config.Document, error) {
	cfgPath, err := config.Find(filepath.Dir(path))
	if err != nil {
		return nil, 0, nil, nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, 0, nil, err
	}
	entry, ok := cfg.Match(path)
	if !ok {
		return nil, 0, nil, nil
	}
	f, err := entry.InputFormat(path)
	if err != nil {
		return nil, 0, nil, err
	}
	schemaPath := cfg.SchemaPath(entry)
	// schemas may be edited while the server runs
	reg.Forget(schemaPath)
	s, err := reg.Load(schemaPath)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("schema %s: %w", schemaPath, err)
	}
	return s, f, entry, nil
}

func diagAt(line, col int, msg string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col + 1)},
		},
		Severity: protocol.DiagnosticSeverityError,
		Message:  msg,
		Source:   diagSource,
	}
}

func (s *Server) publishDiagnostics(ctx context.Context, d *document) {
	if s.conn == nil {
		return
	}
	err := s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(d.uri),
		Diagnostics: d.diags,
	})
	if err != nil {
		theLog.Error("publish diagnostics", "uri", d.uri, "error", err)
	}
}

func (s *Server) update(ctx context.Context, u, content string, version int32) {
	d := analyze(s.schemas, u, content, version)
	s.docs.put(d)
	s.publishDiagnostics(ctx, d)
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// full sync: the last change holds the whole text
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.update(ctx, string(params.TextDocument.URI), content, params.TextDocument.Version)
	return nil
}

func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	d := s.docs.get(string(params.TextDocument.URI))
	if d == nil {
		return nil
	}
	// picks up schema and config edits
	s.update(ctx, d.uri, d.content, d.version)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	u := string(params.TextDocument.URI)
	s.docs.remove(u)
	if s.conn != nil {
		s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(u),
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}
