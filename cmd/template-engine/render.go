package main

import (
	"context"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/interactive-solutions/go-template-engine"
	"github.com/interactive-solutions/go-template-engine/resolver/mustache"
	"github.com/interactive-solutions/go-template-engine/storage/memory"
)

// templateFile is the on-disk form of a template used by the render command.
type templateFile struct {
	Id               string   `yaml:"id"`
	Description      string   `yaml:"description"`
	TemplateResolver string   `yaml:"templateResolver"`
	OutputFormats    []string `yaml:"outputFormats"`

	LocalizedTemplates map[string]struct {
		Header string `yaml:"header"`
		Body   string `yaml:"body"`
	} `yaml:"localizedTemplates"`
}

func loadTemplate(path string) (templateengine.Template, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return templateengine.Template{}, errors.Wrap(err, "failed to read template file")
	}

	file := templateFile{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return templateengine.Template{}, errors.Wrap(err, "failed to parse template file")
	}

	if file.Id == "" {
		file.Id = path
	}

	if file.TemplateResolver == "" {
		file.TemplateResolver = mustache.Name
	}

	tpl := templateengine.Template{
		Id:                 file.Id,
		Description:        file.Description,
		TemplateResolver:   file.TemplateResolver,
		OutputFormats:      file.OutputFormats,
		LocalizedTemplates: map[string]templateengine.LocalizedTemplate{},
	}

	for lang, localized := range file.LocalizedTemplates {
		tpl.LocalizedTemplates[lang] = templateengine.LocalizedTemplate{
			Header: localized.Header,
			Body:   localized.Body,
		}
	}

	return tpl, nil
}

func loadContext(path string) (map[string]interface{}, error) {
	ctx := map[string]interface{}{}
	if path == "" {
		return ctx, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read context file")
	}

	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, errors.Wrap(err, "failed to parse context file")
	}

	return ctx, nil
}

type renderOptions struct {
	templatePath string
	contextPath  string
	lang         string
	format       string
	locale       string
	timezone     string
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Process a template file against a json context and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := render(opts)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to convert to json")
			}

			cmd.OutOrStdout().Write(append(out, '\n'))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.templatePath, "template", "", "Template yaml file")
	flags.StringVar(&opts.contextPath, "context", "", "Context json file")
	flags.StringVar(&opts.lang, "lang", "en", "Language of the localized template")
	flags.StringVar(&opts.format, "format", "html", "Output format")
	flags.StringVar(&opts.locale, "locale", "", "Language tag used for dates, en-US when empty")
	flags.StringVar(&opts.timezone, "timezone", "", "IANA time zone used for dates, UTC when empty")
	cmd.MarkFlagRequired("template")

	return cmd
}

func render(opts renderOptions) (*templateengine.ProcessingResult, error) {
	tpl, err := loadTemplate(opts.templatePath)
	if err != nil {
		return nil, err
	}

	ctx, err := loadContext(opts.contextPath)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	app, err := templateengine.NewApplication(
		templateengine.SetLogger(logger),
		templateengine.SetTemplateRepo(memory.NewTemplateRepository(tpl)),
		templateengine.SetResolver(mustache.Name, mustache.NewResolver()),
		templateengine.SetLocaleProvider(templateengine.StaticLocaleProvider{
			LanguageTag: opts.locale,
			TimeZoneId:  opts.timezone,
		}),
	)
	if err != nil {
		return nil, err
	}

	return app.ProcessTemplate(context.Background(), templateengine.ProcessingRequest{
		TemplateId:   tpl.Id,
		Lang:         opts.lang,
		OutputFormat: opts.format,
		Context:      ctx,
	})
}
