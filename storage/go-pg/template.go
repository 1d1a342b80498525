package gopg

import (
	"github.com/go-pg/pg"
	"github.com/go-pg/pg/types"

	"github.com/interactive-solutions/go-template-engine"
)

func NewTemplateRepository(db *pg.DB) templateengine.TemplateRepository {
	return &templateRepository{
		db: db,
	}
}

type templateRepository struct {
	db *pg.DB
}

type templateWrapper struct {
	TableName struct{} `sql:"template_engine_templates,alias:tet" json:"-"`

	*templateengine.Template
}

func (repo *templateRepository) Get(id string) (templateengine.Template, error) {
	wrapped := &templateWrapper{
		Template: &templateengine.Template{},
	}

	if err := repo.db.Model(wrapped).Where("id = ?", id).Select(); err != nil {
		if err == pg.ErrNoRows {
			return *wrapped.Template, templateengine.TemplateNotFoundErr
		}

		return *wrapped.Template, err
	}

	return *wrapped.Template, nil
}

func (repo *templateRepository) Create(template *templateengine.Template) error {
	return repo.db.Insert(&templateWrapper{Template: template})
}

func (repo *templateRepository) Update(template *templateengine.Template) error {
	return repo.db.Update(&templateWrapper{Template: template})
}

func (repo *templateRepository) Delete(template *templateengine.Template) error {
	return repo.db.Delete(&templateWrapper{Template: template})
}

func (repo *templateRepository) Matching(criteria templateengine.TemplateCriteria) ([]templateengine.Template, int, error) {
	var wrapped []templateWrapper
	templates := make([]templateengine.Template, 0)

	builder := repo.db.Model(&wrapped).
		Offset(criteria.Offset).
		Limit(criteria.Limit)

	if criteria.TemplateResolver != "" {
		builder.Where("template_resolver = ?", criteria.TemplateResolver)
	}

	// Localized templates are stored as a jsonb object keyed by language
	if criteria.Lang != "" {
		builder.Where("jsonb_exists(localized_templates, ?)", criteria.Lang)
	}

	if criteria.OutputFormat != "" {
		builder.Where("? = ANY(output_formats)", criteria.OutputFormat)
	}

	if criteria.Description != "" {
		builder.Where("LOWER(description) LIKE LOWER(?)", criteria.Description+"%")
	}

	if !criteria.UpdatedAfter.IsZero() {
		builder.Where("updated_at >= ?", criteria.UpdatedAfter)
	}

	if !criteria.UpdatedBefore.IsZero() {
		builder.Where("updated_at <= ?", criteria.UpdatedBefore)
	}

	for col, dir := range criteria.Sorting {
		builder.OrderExpr("? ?", types.F(col), types.Q(dir))
	}

	count, err := builder.SelectAndCount()
	if err != nil && err != pg.ErrNoRows {
		return templates, 0, err
	}

	for _, t := range wrapped {
		templates = append(templates, *t.Template)
	}

	return templates, count, nil
}
