package templateengine

import (
	"context"

	"github.com/pkg/errors"
)

var (
	TemplateNotFoundErr = errors.New("The template was not found")
	TemplateInUseErr    = errors.New("The template is currently in use")
	InvalidRequestErr   = errors.New("The request is invalid")
	JobNotFoundErr      = errors.New("The job was not found")
)

type TemplateRepository interface {
	Get(id string) (Template, error)
	Matching(criteria TemplateCriteria) ([]Template, int, error)

	Create(template *Template) error
	Update(template *Template) error
	Delete(template *Template) error
}

type JobRepository interface {
	GetPending() ([]Job, error)

	Create(*Job) error
	Update(*Job) error
}

// UsageChecker reports whether other services still reference a template.
type UsageChecker interface {
	TemplateInUse(ctx context.Context, templateId string) (bool, error)
}
