package internal

type LocalizedTemplate struct {
	Header string `json:"header"`
	Body   string `json:"body"`
}

type TemplateRequest struct {
	Description      string   `json:"description"`
	TemplateResolver string   `json:"templateResolver"`
	OutputFormats    []string `json:"outputFormats"`

	LocalizedTemplates map[string]LocalizedTemplate `json:"localizedTemplates"`
}

type DeliveryRequest struct {
	TemplateId   string                 `json:"templateId"`
	Lang         string                 `json:"lang"`
	OutputFormat string                 `json:"outputFormat"`
	Context      map[string]interface{} `json:"context"`

	// email address or phone number depending on the route
	Target string `json:"target"`
}
