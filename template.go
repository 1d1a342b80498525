package templateengine

import (
	"strings"
	"time"
)

type LocalizedTemplate struct {
	Header string `json:"header"`
	Body   string `json:"body"`
}

type Template struct {
	Id          string `sql:",pk" json:"id"`
	Description string `json:"description"`

	TemplateResolver string   `sql:",notnull" json:"templateResolver"`
	OutputFormats    []string `sql:",array" json:"outputFormats"`

	// Keyed by language tag
	LocalizedTemplates map[string]LocalizedTemplate `json:"localizedTemplates"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Template) SupportsOutputFormat(format string) bool {
	for _, f := range t.OutputFormats {
		if f == format {
			return true
		}
	}

	return false
}

// Localized returns a copy of the template text for lang.
func (t Template) Localized(lang string) (LocalizedTemplate, bool) {
	localized, ok := t.LocalizedTemplates[lang]
	return localized, ok
}

type TemplateCriteria struct {
	Offset int
	Limit  int

	TemplateResolver string
	Lang             string
	OutputFormat     string
	Description      string

	UpdatedAfter  time.Time
	UpdatedBefore time.Time

	// column => asc/desc
	Sorting map[string]string
}

func isHtml(outputFormat string) bool {
	return strings.EqualFold(outputFormat, "html")
}
