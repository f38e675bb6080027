package ir

import (
	"fmt"
	"slices"

	"github.com/signadot/docgraph/schema"
)

// Dictionary is a node mapping keys to entries in insertion order. Its
// schema may declare orderings: linked traversals over the same entries,
// each defined by a successor state group field of the entry records.
type Dictionary struct {
	Node
}

func (n Node) Dictionary() (Dictionary, error) {
	if n.Kind() != schema.DictionaryKind {
		return Dictionary{}, n.kindErr("dictionary")
	}
	return Dictionary{n}, nil
}

func (dict Dictionary) Len() int {
	return len(dict.e().keys)
}

// Keys returns the keys in insertion order.
func (dict Dictionary) Keys() []string {
	return slices.Clone(dict.e().keys)
}

func (dict Dictionary) Has(key string) bool {
	_, ok := dict.e().pos[key]
	return ok
}

// Get forces and returns the entry at key. In lazy mode the entry is
// decoded on the first call and kept.
func (dict Dictionary) Get(key string) (Node, error) {
	e := dict.e()
	i, ok := e.pos[key]
	if !ok {
		return Node{}, fmt.Errorf("%w: no entry %q in %s", ErrNotFound, key, dict)
	}
	id, err := dict.doc.force(dict.id, e.cells[i])
	if err != nil {
		return Node{}, err
	}
	return dict.with(id), nil
}

// Each calls f on every entry in insertion order, stopping at the first
// error.
func (dict Dictionary) Each(f func(key string, n Node) error) error {
	for _, k := range dict.e().keys {
		n, err := dict.Get(k)
		if err != nil {
			return err
		}
		if err := f(k, n); err != nil {
			return err
		}
	}
	return nil
}

// MapDictionary applies f to the entries of dict in insertion order.
func MapDictionary[T any](dict Dictionary, f func(key string, n Node) (T, error)) ([]T, error) {
	res := make([]T, 0, dict.Len())
	err := dict.Each(func(k string, n Node) error {
		v, err := f(k, n)
		if err != nil {
			return err
		}
		res = append(res, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (dict Dictionary) ordering(name string) (*schema.Ordering, error) {
	o := dict.Type().Ordering(name)
	if o == nil {
		return nil, fmt.Errorf("%w: %s has no ordering %q", ErrNotFound, dict, name)
	}
	return o, nil
}

// successor returns the key following key in ordering o. It reads the
// stored entry key of the next reference, so following a chain never
// resolves references.
func (dict Dictionary) successor(o *schema.Ordering, key string) (string, bool, error) {
	n, err := dict.Get(key)
	if err != nil {
		return "", false, err
	}
	f, err := n.Field(o.Field)
	if err != nil {
		return "", false, err
	}
	sg, err := f.StateGroup()
	if err != nil {
		return "", false, err
	}
	if sg.Variant() != schema.SuccessorYes {
		return "", false, nil
	}
	yes, err := sg.Child()
	if err != nil {
		return "", false, err
	}
	next, err := yes.Field(schema.SuccessorNext)
	if err != nil {
		return "", false, err
	}
	ref, err := next.Reference()
	if err != nil {
		return "", false, err
	}
	k := ref.Entry()
	if !dict.Has(k) {
		return "", false, &ReferenceError{
			Path:    next.Path(),
			Entry:   k,
			Message: fmt.Sprintf("ordering %q continues outside %s", o.Name, dict),
		}
	}
	return k, true, nil
}

// Head finds the entry an ordering starts from. Entries are scanned in
// insertion order; each unvisited entry starts a chain that is followed
// while marking entries visited, so every entry is visited once. The head
// is the entry that started the last chain. For one acyclic chain this is
// the entry no successor points to. With several disjoint chains it is the
// head of the chain starting latest in insertion order, and when every
// entry is on one cycle it is the first entry.
func (dict Dictionary) Head(ordering string) (string, error) {
	o, err := dict.ordering(ordering)
	if err != nil {
		return "", err
	}
	keys := dict.e().keys
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, dict)
	}
	visited := make(map[string]bool, len(keys))
	head := ""
	for _, k := range keys {
		if visited[k] {
			continue
		}
		head = k
		for cur := k; ; {
			visited[cur] = true
			next, ok, err := dict.successor(o, cur)
			if err != nil {
				return "", err
			}
			if !ok || visited[next] {
				break
			}
			cur = next
		}
	}
	return head, nil
}

// Walk calls f on the entries of an ordering starting at start, or at the
// Head if start is empty. It stops after an entry without successor or
// before revisiting an entry, so it terminates on cycles.
func (dict Dictionary) Walk(ordering, start string, f func(key string, n Node) error) error {
	o, err := dict.ordering(ordering)
	if err != nil {
		return err
	}
	if dict.Len() == 0 {
		return nil
	}
	if start == "" {
		if start, err = dict.Head(ordering); err != nil {
			return err
		}
	}
	visited := map[string]bool{}
	for cur := start; !visited[cur]; {
		visited[cur] = true
		n, err := dict.Get(cur)
		if err != nil {
			return err
		}
		if err := f(cur, n); err != nil {
			return err
		}
		next, ok, err := dict.successor(o, cur)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		cur = next
	}
	return nil
}

// Ordered returns the keys visited by Walk.
func (dict Dictionary) Ordered(ordering, start string) ([]string, error) {
	var res []string
	err := dict.Walk(ordering, start, func(k string, _ Node) error {
		res = append(res, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
