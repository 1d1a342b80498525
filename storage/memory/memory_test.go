package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/interactive-solutions/go-template-engine"
)

func TestMemoryStorage(t *testing.T) {
	suite.Run(t, new(memoryTestSuite))
}

type memoryTestSuite struct {
	suite.Suite
}

func template(id, resolver string, formats []string, langs ...string) templateengine.Template {
	localized := map[string]templateengine.LocalizedTemplate{}
	for _, lang := range langs {
		localized[lang] = templateengine.LocalizedTemplate{Body: id + " " + lang}
	}

	return templateengine.Template{
		Id:                 id,
		Description:        "Template " + id,
		TemplateResolver:   resolver,
		OutputFormats:      formats,
		LocalizedTemplates: localized,
	}
}

func (suite *memoryTestSuite) TestTemplateLifecycle() {
	repo := NewTemplateRepository()

	_, err := repo.Get("a")
	assert.Equal(suite.T(), templateengine.TemplateNotFoundErr, err)

	tpl := template("a", "mustache", []string{"html"}, "en")
	require.NoError(suite.T(), repo.Create(&tpl))

	stored, err := repo.Get("a")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), tpl, stored)

	tpl.Description = "changed"
	require.NoError(suite.T(), repo.Update(&tpl))

	stored, _ = repo.Get("a")
	assert.Equal(suite.T(), "changed", stored.Description)

	missing := template("b", "mustache", nil)
	assert.Equal(suite.T(), templateengine.TemplateNotFoundErr, repo.Update(&missing))

	require.NoError(suite.T(), repo.Delete(&tpl))
	_, err = repo.Get("a")
	assert.Equal(suite.T(), templateengine.TemplateNotFoundErr, err)
}

func (suite *memoryTestSuite) TestStoredTemplatesAreCopies() {
	tpl := template("a", "mustache", []string{"html"}, "en")
	repo := NewTemplateRepository(tpl)

	tpl.Description = "changed after create"

	stored, err := repo.Get("a")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Template a", stored.Description)
}

func (suite *memoryTestSuite) TestMatching() {
	repo := NewTemplateRepository(
		template("c", "mustache", []string{"html", "text"}, "en", "sv"),
		template("a", "mustache", []string{"text"}, "en"),
		template("b", "other", []string{"html"}, "sv"),
	)

	tests := []struct {
		name     string
		criteria templateengine.TemplateCriteria
		ids      []string
		count    int
	}{
		{"everything", templateengine.TemplateCriteria{}, []string{"a", "b", "c"}, 3},
		{"by resolver", templateengine.TemplateCriteria{TemplateResolver: "mustache"}, []string{"a", "c"}, 2},
		{"by language", templateengine.TemplateCriteria{Lang: "sv"}, []string{"b", "c"}, 2},
		{"by format", templateengine.TemplateCriteria{OutputFormat: "html"}, []string{"b", "c"}, 2},
		{"by description", templateengine.TemplateCriteria{Description: "template c"}, []string{"c"}, 1},
		{"paged", templateengine.TemplateCriteria{Offset: 1, Limit: 1}, []string{"b"}, 3},
		{"past the end", templateengine.TemplateCriteria{Offset: 5}, []string{}, 3},
	}

	for _, test := range tests {
		templates, count, err := repo.Matching(test.criteria)
		require.NoError(suite.T(), err, test.name)

		ids := make([]string, 0, len(templates))
		for _, t := range templates {
			ids = append(ids, t.Id)
		}

		assert.Equal(suite.T(), test.ids, ids, test.name)
		assert.Equal(suite.T(), test.count, count, test.name)
	}
}

func (suite *memoryTestSuite) TestPendingJobs() {
	repo := NewJobRepository()
	now := time.Now()

	newer := &templateengine.Job{Uuid: uuid.New(), TemplateId: "newer", CreatedAt: now}
	older := &templateengine.Job{Uuid: uuid.New(), TemplateId: "older", CreatedAt: now.Add(-time.Minute)}
	sent := &templateengine.Job{Uuid: uuid.New(), TemplateId: "sent", CreatedAt: now, SentAt: &now}

	for _, job := range []*templateengine.Job{newer, older, sent} {
		require.NoError(suite.T(), repo.Create(job))
	}

	pending, err := repo.GetPending()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), pending, 2)
	assert.Equal(suite.T(), "older", pending[0].TemplateId)
	assert.Equal(suite.T(), "newer", pending[1].TemplateId)

	older.SentAt = &now
	require.NoError(suite.T(), repo.Update(older))

	pending, _ = repo.GetPending()
	assert.Len(suite.T(), pending, 1)

	unknown := &templateengine.Job{Uuid: uuid.New()}
	assert.Equal(suite.T(), templateengine.JobNotFoundErr, repo.Update(unknown))
}
