// Package memory keeps templates and jobs in process memory. It backs the
// offline render command and tests that need a working repository.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/interactive-solutions/go-template-engine"
)

func NewTemplateRepository(templates ...templateengine.Template) templateengine.TemplateRepository {
	repo := &templateRepository{
		templates: map[string]templateengine.Template{},
	}

	for _, t := range templates {
		repo.templates[t.Id] = t
	}

	return repo
}

type templateRepository struct {
	mu        sync.RWMutex
	templates map[string]templateengine.Template
}

func (repo *templateRepository) Get(id string) (templateengine.Template, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	t, ok := repo.templates[id]
	if !ok {
		return templateengine.Template{}, templateengine.TemplateNotFoundErr
	}

	return t, nil
}

func (repo *templateRepository) Create(template *templateengine.Template) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.templates[template.Id] = *template
	return nil
}

func (repo *templateRepository) Update(template *templateengine.Template) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.templates[template.Id]; !ok {
		return templateengine.TemplateNotFoundErr
	}

	repo.templates[template.Id] = *template
	return nil
}

func (repo *templateRepository) Delete(template *templateengine.Template) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.templates, template.Id)
	return nil
}

// Matching filters like the postgres repository. Results are ordered by id,
// a zero limit returns everything after the offset.
func (repo *templateRepository) Matching(criteria templateengine.TemplateCriteria) ([]templateengine.Template, int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	templates := make([]templateengine.Template, 0)

	for _, t := range repo.templates {
		if matches(t, criteria) {
			templates = append(templates, t)
		}
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Id < templates[j].Id
	})

	count := len(templates)

	if criteria.Offset >= count {
		return []templateengine.Template{}, count, nil
	}
	templates = templates[criteria.Offset:]

	if criteria.Limit > 0 && criteria.Limit < len(templates) {
		templates = templates[:criteria.Limit]
	}

	return templates, count, nil
}

func matches(t templateengine.Template, criteria templateengine.TemplateCriteria) bool {
	if criteria.TemplateResolver != "" && t.TemplateResolver != criteria.TemplateResolver {
		return false
	}

	if criteria.Lang != "" {
		if _, ok := t.Localized(criteria.Lang); !ok {
			return false
		}
	}

	if criteria.OutputFormat != "" && !t.SupportsOutputFormat(criteria.OutputFormat) {
		return false
	}

	if criteria.Description != "" && !strings.HasPrefix(strings.ToLower(t.Description), strings.ToLower(criteria.Description)) {
		return false
	}

	if !criteria.UpdatedAfter.IsZero() && t.UpdatedAt.Before(criteria.UpdatedAfter) {
		return false
	}

	if !criteria.UpdatedBefore.IsZero() && t.UpdatedAt.After(criteria.UpdatedBefore) {
		return false
	}

	return true
}
