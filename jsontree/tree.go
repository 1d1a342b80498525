package jsontree

import (
	"sort"

	"github.com/pkg/errors"
)

// Leaf is a scalar value found while flattening a tree.
type Leaf struct {
	Path  Path
	Value interface{}
}

// AsString returns the value and true when the leaf holds a string.
func (l Leaf) AsString() (string, bool) {
	s, ok := l.Value.(string)
	return s, ok
}

// Flatten lists every scalar leaf (strings, numbers, booleans and nulls) of the
// tree. Map keys are visited in sorted order so the result is deterministic.
// The returned slice is a snapshot, writes go through Set.
func Flatten(tree map[string]interface{}) []Leaf {
	var leaves []Leaf
	flattenMap(nil, tree, &leaves)

	return leaves
}

func flattenMap(prefix Path, m map[string]interface{}, leaves *[]Leaf) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		flattenValue(prefix.Child(k), m[k], leaves)
	}
}

func flattenValue(path Path, value interface{}, leaves *[]Leaf) {
	switch v := value.(type) {
	case map[string]interface{}:
		flattenMap(path, v, leaves)

	case []interface{}:
		for i, item := range v {
			flattenValue(path.Nth(i), item, leaves)
		}

	default:
		*leaves = append(*leaves, Leaf{Path: path, Value: v})
	}
}

// Lookup returns the value stored at path.
func Lookup(tree map[string]interface{}, path Path) (interface{}, bool) {
	var current interface{} = tree

	for _, s := range path {
		switch v := current.(type) {
		case map[string]interface{}:
			if s.IsIndex {
				return nil, false
			}

			next, ok := v[s.Key]
			if !ok {
				return nil, false
			}
			current = next

		case []interface{}:
			if !s.IsIndex || s.Index < 0 || s.Index >= len(v) {
				return nil, false
			}
			current = v[s.Index]

		default:
			return nil, false
		}
	}

	return current, true
}

// Set writes value at path in the original tree, creating intermediate maps
// when they are missing.
func Set(tree map[string]interface{}, path Path, value interface{}) error {
	if len(path) == 0 {
		return errors.New("cannot replace the root of a tree")
	}

	if err := path.Expr().Set(tree, value); err != nil {
		return errors.Wrapf(err, "failed to set value at %s", path)
	}

	return nil
}

// Clone deep copies a tree. Typed containers that callers commonly build by
// hand ([]map[string]interface{}, []string, map[string]string) are normalized
// to the generic shapes Flatten understands.
func Clone(tree map[string]interface{}) map[string]interface{} {
	if tree == nil {
		return map[string]interface{}{}
	}

	return cloneValue(tree).(map[string]interface{})
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = cloneValue(item)
		}
		return out

	case map[string]string:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = item
		}
		return out

	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out

	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out

	case []string:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out

	default:
		return v
	}
}
