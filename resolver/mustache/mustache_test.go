package mustache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	context := map[string]interface{}{
		"user": map[string]interface{}{"name": "<b>Tester</b>"},
		"items": []interface{}{
			map[string]interface{}{"title": "First"},
			map[string]interface{}{"title": "Second"},
		},
	}

	cases := []struct {
		name     string
		text     string
		expected string
	}{
		{"plain text", "no tokens here", "no tokens here"},
		{"escaped", "Hi {{user.name}}", "Hi &lt;b&gt;Tester&lt;/b&gt;"},
		{"raw", "Hi {{{user.name}}}", "Hi <b>Tester</b>"},
		{"loop", "{{#items}}[{{title}}]{{/items}}", "[First][Second]"},
		{"missing value", "Hi {{user.email}}!", "Hi !"},
	}

	r := NewResolver()

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := r.Render(c.text, context)
			require.NoError(t, err)
			assert.Equal(t, c.expected, out)
		})
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	_, err := NewResolver().Render("{{#open}} never closed", map[string]interface{}{})
	assert.Error(t, err)
}
