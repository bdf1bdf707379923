package rpc

// Tree is an ordered mapping of field names to values, one decoded request
// message. Keys iterate in insertion order.
//
// A Tree is only mutated through Set while it is being assembled; every
// operation in this package treats it as read-only and returns new trees
// instead of modifying its input.
type Tree struct {
	keys []string
	vals map[string]Value
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{vals: make(map[string]Value)}
}

// Set stores v under key, keeping the position of an existing key. The
// zero Tree is ready to use.
func (t *Tree) Set(key string, v Value) *Tree {
	if t.vals == nil {
		t.vals = make(map[string]Value)
	}
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
	return t
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.vals[key]
	return v, ok
}

// Keys returns the keys in iteration order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Lookup descends along path. It fails when a key is missing or when an
// intermediate value is not a tree.
func (t *Tree) Lookup(path FieldPath) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}
	cur := t
	for i, key := range path {
		v, ok := cur.Get(key)
		if !ok {
			return Value{}, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if cur, ok = v.AsTree(); !ok {
			return Value{}, false
		}
	}
	return Value{}, false
}

// Without returns a copy of t with the leaves named by paths removed.
// Intermediate trees left empty are kept. Subtrees not touched by any path
// are shared with t.
func (t *Tree) Without(paths []FieldPath) *Tree {
	if t == nil {
		return nil
	}
	out := NewTree()
	for _, key := range t.keys {
		v := t.vals[key]
		var nested []FieldPath
		drop := false
		for _, p := range paths {
			if len(p) == 0 || p[0] != key {
				continue
			}
			if len(p) == 1 {
				drop = true
				break
			}
			nested = append(nested, p[1:])
		}
		if drop {
			continue
		}
		if len(nested) > 0 {
			if sub, ok := v.AsTree(); ok {
				v = Object(sub.Without(nested))
			}
		}
		out.Set(key, v)
	}
	return out
}

// Equal reports whether both trees hold the same keys in the same order with
// equal values.
func (t *Tree) Equal(o *Tree) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t == nil || o == nil {
		return t == o || t.Len() == 0
	}
	for i, key := range t.keys {
		if o.keys[i] != key {
			return false
		}
		if !t.vals[key].Equal(o.vals[key]) {
			return false
		}
	}
	return true
}
