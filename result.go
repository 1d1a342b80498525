package templateengine

import (
	"time"

	"github.com/interactive-solutions/go-template-engine/preprocess"
)

type Attachment = preprocess.Attachment

type ProcessingRequest struct {
	TemplateId   string                 `json:"templateId"`
	Lang         string                 `json:"lang"`
	OutputFormat string                 `json:"outputFormat"`
	Context      map[string]interface{} `json:"context"`
}

type Result struct {
	Header      string       `json:"header"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
}

type Meta struct {
	// Byte length of the rendered body
	Size         int       `json:"size"`
	DateCreate   time.Time `json:"dateCreate"`
	Lang         string    `json:"lang"`
	OutputFormat string    `json:"outputFormat"`
}

type ProcessingResult struct {
	TemplateId string `json:"templateId"`
	Result     Result `json:"result"`
	Meta       Meta   `json:"meta"`
}

func (r *ProcessingResult) IsHtml() bool {
	return isHtml(r.Meta.OutputFormat)
}
