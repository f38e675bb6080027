package schema

import (
	"fmt"
	"maps"
	"path/filepath"
	"sync"
)

// Registry holds compiled schemas by name and caches schemas loaded from
// files by absolute path. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Schema
	byPath map[string]*Schema
}

func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]*Schema{},
		byPath: map[string]*Schema{},
	}
}

// Register compiles s and registers it under its name.
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("cannot register nil schema")
	}
	if s.Name == "" {
		return fmt.Errorf("schema must have a name")
	}
	if err := s.Compile(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[s.Name]; exists {
		return fmt.Errorf("schema %q already registered", s.Name)
	}
	r.byName[s.Name] = s
	return nil
}

// Lookup looks up a schema by name.
func (r *Registry) Lookup(name string) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Load returns the schema in the file at path, parsing it on first use.
// Schemas loaded from files are also registered by name, the last load
// winning.
func (r *Registry) Load(path string) (*Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	s, ok := r.byPath[abs]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	s, err = LoadFile(abs)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byPath[abs]; ok {
		return prev, nil
	}
	r.byPath[abs] = s
	if s.Name != "" {
		r.byName[s.Name] = s
	}
	return s, nil
}

// Forget drops the cached schema for path so the next Load reads it again.
func (r *Registry) Forget(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPath, abs)
}

// All returns all schemas registered by name.
func (r *Registry) All() map[string]*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.byName)
}
