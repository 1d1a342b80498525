// Package jsontree addresses values inside schema-less context trees, the
// map[string]interface{} / []interface{} shape produced by decoding JSON.
package jsontree

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Segment is a single step of a Path, either a map key or a list index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func Key(key string) Segment {
	return Segment{Key: key}
}

func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// Path locates a value inside a tree.
type Path []Segment

// Child returns a new path with key appended, the receiver is not modified.
func (p Path) Child(key string) Path {
	return p.append(Key(key))
}

// Nth returns a new path with the list index i appended.
func (p Path) Nth(i int) Path {
	return p.append(Index(i))
}

func (p Path) append(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, s)
}

// WithSuffix returns the path with suffix appended to its final key, so
// "loan.dueDate" becomes "loan.dueDateTime" for suffix "Time". Paths ending in
// a list index can't be suffixed.
func (p Path) WithSuffix(suffix string) (Path, bool) {
	if len(p) == 0 || p[len(p)-1].IsIndex {
		return nil, false
	}

	out := make(Path, len(p))
	copy(out, p)
	out[len(out)-1].Key += suffix

	return out, true
}

// LastKey is the key of the innermost map holding the value; index segments
// are skipped.
func (p Path) LastKey() (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if !p[i].IsIndex {
			return p[i].Key, true
		}
	}

	return "", false
}

// Short is the dotted path after the last list index, matching how a template
// refers to the current item inside a loop section.
func (p Path) Short() string {
	start := 0
	for i, s := range p {
		if s.IsIndex {
			start = i + 1
		}
	}

	return p[start:].String()
}

// String renders the path as "loans[0].item.barcode".
func (p Path) String() string {
	var b strings.Builder

	for _, s := range p {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}

		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}

	return b.String()
}

// Expr converts the path into a JSONPath expression rooted at "$".
func (p Path) Expr() jp.Expr {
	x := jp.R()
	for _, s := range p {
		if s.IsIndex {
			x = x.N(s.Index)
		} else {
			x = x.C(s.Key)
		}
	}

	return x
}
