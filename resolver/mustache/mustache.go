// Package mustache is the built-in template resolver backed by
// github.com/cbroglie/mustache.
package mustache

import (
	"github.com/cbroglie/mustache"
	"github.com/pkg/errors"
)

const Name = "mustache"

type resolver struct{}

func NewResolver() *resolver {
	return &resolver{}
}

// Render substitutes context into text. {{x}} is HTML escaped, {{{x}}} is
// written as is, and values missing from the context render empty.
func (r *resolver) Render(text string, context map[string]interface{}) (string, error) {
	tpl, err := mustache.ParseString(text)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse mustache template")
	}

	out, err := tpl.Render(context)
	if err != nil {
		return "", errors.Wrap(err, "failed to render mustache template")
	}

	return out, nil
}
