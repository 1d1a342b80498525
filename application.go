package templateengine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine/barcode"
	"github.com/interactive-solutions/go-template-engine/jsontree"
	"github.com/interactive-solutions/go-template-engine/preprocess"
)

const UserAgent = "InteractiveSolutions/GoTemplateEngine-1.0"

type Application interface {
	HttpHandler() *HttpHandler

	ProcessTemplate(ctx context.Context, request ProcessingRequest) (*ProcessingResult, error)

	GetTemplate(id string) (Template, error)
	MatchTemplates(criteria TemplateCriteria) ([]Template, int, error)
	CreateTemplate(template *Template) error
	UpdateTemplate(template *Template) error
	DeleteTemplate(ctx context.Context, id string) error

	SendEmail(request ProcessingRequest, email string) (*Job, error)
	SendSms(request ProcessingRequest, number string) (*Job, error)

	Shutdown(ctx context.Context)
}

type AppOption func(a *application)

func SetLogger(logger logrus.FieldLogger) AppOption {
	return func(a *application) {
		a.logger = logger
	}
}

func SetTemplateRepo(repo TemplateRepository) AppOption {
	return func(a *application) {
		a.templateRepo = repo
	}
}

func SetJobRepo(repo JobRepository) AppOption {
	return func(a *application) {
		a.jobRepo = repo
	}
}

func SetLocaleProvider(provider LocaleProvider) AppOption {
	return func(a *application) {
		a.localeProvider = provider
	}
}

// SetResolver registers a resolver under the name templates refer to in their
// TemplateResolver field.
func SetResolver(name string, resolver Resolver) AppOption {
	return func(a *application) {
		a.resolvers[name] = resolver
	}
}

func SetBarcodeEncoder(encoder *barcode.Encoder) AppOption {
	return func(a *application) {
		a.encoder = encoder
	}
}

func SetBarcodeMarkers(markers ...string) AppOption {
	return func(a *application) {
		a.barcodeMarkers = markers
	}
}

func SetUsageChecker(checker UsageChecker) AppOption {
	return func(a *application) {
		a.usageChecker = checker
	}
}

func SetDefaultSmsTransport(transport SmsTransport) AppOption {
	return func(a *application) {
		a.defaultSmsTransport = transport
	}
}

func SetDefaultEmailTransport(transport EmailTransport) AppOption {
	return func(a *application) {
		a.defaultEmailTransport = transport
	}
}

func SetWorkerCount(count int) AppOption {
	return func(a *application) {
		a.workerCount = count
	}
}

func SetClock(now func() time.Time) AppOption {
	return func(a *application) {
		a.now = now
	}
}

type application struct {
	logger logrus.FieldLogger
	now    func() time.Time

	workerCancel context.CancelFunc

	workerQueue chan *Job
	workerCount int

	templateRepo TemplateRepository
	jobRepo      JobRepository

	localeProvider LocaleProvider
	resolvers      map[string]Resolver
	usageChecker   UsageChecker

	encoder        *barcode.Encoder
	barcodeMarkers []string
	preprocessor   *preprocess.Processor

	defaultSmsTransport   SmsTransport
	defaultEmailTransport EmailTransport
}

func NewApplication(options ...AppOption) (Application, error) {
	app := &application{
		logger: logrus.New(),
		now:    time.Now,

		workerQueue: make(chan *Job, 1000),
		workerCount: 5,

		localeProvider: StaticLocaleProvider(DefaultLocaleSettings),
		resolvers:      map[string]Resolver{},
		encoder:        barcode.NewEncoder(),
		barcodeMarkers: preprocess.DefaultBarcodeMarkers,
	}

	for _, option := range options {
		option(app)
	}

	if err := app.ensureUsableConfiguration(); err != nil {
		return app, err
	}

	app.preprocessor = preprocess.NewProcessor(
		app.encoder,
		preprocess.SetLogger(app.logger),
		preprocess.SetBarcodeMarkers(app.barcodeMarkers...),
	)

	// Without a job repository the application only processes templates
	if app.jobRepo == nil {
		return app, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.workerCancel = cancel

	for i := 0; i < app.workerCount; i++ {
		go app.worker(ctx)
	}

	jobs, err := app.jobRepo.GetPending()
	if err != nil {
		return app, err
	}

	for i := range jobs {
		app.queue(&jobs[i])
	}

	return app, nil
}

func (a *application) HttpHandler() *HttpHandler {
	return &HttpHandler{
		app: a,
	}
}

func (a *application) ensureUsableConfiguration() error {
	if a.templateRepo == nil {
		return errors.New("Missing template repository")
	}

	if len(a.resolvers) == 0 {
		return errors.New("No template resolver configured")
	}

	if a.localeProvider == nil {
		return errors.New("Missing locale provider")
	}

	if a.encoder == nil {
		return errors.New("Missing barcode encoder")
	}

	// A broken rendering environment would fail every request using barcodes,
	// refuse to start instead.
	return a.encoder.CheckEnvironment()
}

// ProcessTemplate renders the localized header and body of a template against
// the request context. The request context is not modified.
func (a *application) ProcessTemplate(ctx context.Context, request ProcessingRequest) (*ProcessingResult, error) {
	tpl, err := a.GetTemplate(request.TemplateId)
	if err != nil {
		return nil, err
	}

	localized, err := validateProcessingRequest(request, tpl)
	if err != nil {
		return nil, err
	}

	resolver, ok := a.resolvers[tpl.TemplateResolver]
	if !ok {
		return nil, errors.Wrapf(InvalidRequestErr, "Template resolver '%s' is not supported", tpl.TemplateResolver)
	}

	settings, err := a.localeProvider.LookupLocaleSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lookup locale settings")
	}
	settings = settings.WithDefaults()

	tree := jsontree.Clone(request.Context)

	prepared, err := a.preprocessor.Process(localized.Header, localized.Body, tree, settings.LanguageTag, settings.TimeZoneId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to preprocess template %s", tpl.Id)
	}

	header, err := resolver.Render(prepared.Header, tree)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render header of template %s", tpl.Id)
	}

	body, err := resolver.Render(prepared.Body, tree)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render body of template %s", tpl.Id)
	}

	attachments := prepared.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}

	return &ProcessingResult{
		TemplateId: request.TemplateId,
		Result: Result{
			Header:      header,
			Body:        body,
			Attachments: attachments,
		},
		Meta: Meta{
			Size:         len(body),
			DateCreate:   a.now(),
			Lang:         request.Lang,
			OutputFormat: request.OutputFormat,
		},
	}, nil
}

func validateProcessingRequest(request ProcessingRequest, tpl Template) (LocalizedTemplate, error) {
	if !tpl.SupportsOutputFormat(request.OutputFormat) {
		return LocalizedTemplate{}, errors.Wrapf(InvalidRequestErr,
			"Requested template does not support '%s' output format", request.OutputFormat)
	}

	localized, ok := tpl.Localized(request.Lang)
	if !ok {
		return LocalizedTemplate{}, errors.Wrapf(InvalidRequestErr,
			"Requested template does not have localized template for language '%s'", request.Lang)
	}

	return localized, nil
}

func (a *application) GetTemplate(id string) (Template, error) {
	tpl, err := a.templateRepo.Get(id)
	switch errors.Cause(err) {
	case nil:
		return tpl, nil

	case TemplateNotFoundErr:
		return tpl, errors.Wrapf(TemplateNotFoundErr, "Template with id '%s' not found", id)

	default:
		return tpl, errors.Wrapf(err, "failed to retrieve template %s", id)
	}
}

func (a *application) MatchTemplates(criteria TemplateCriteria) ([]Template, int, error) {
	return a.templateRepo.Matching(criteria)
}

func (a *application) CreateTemplate(template *Template) error {
	if err := a.validateTemplate(template); err != nil {
		return err
	}

	now := a.now()

	template.Id = uuid.New().String()
	template.CreatedAt = now
	template.UpdatedAt = now

	return a.templateRepo.Create(template)
}

func (a *application) UpdateTemplate(template *Template) error {
	if err := a.validateTemplate(template); err != nil {
		return err
	}

	existing, err := a.GetTemplate(template.Id)
	if err != nil {
		return err
	}

	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = a.now()

	return a.templateRepo.Update(template)
}

func (a *application) DeleteTemplate(ctx context.Context, id string) error {
	tpl, err := a.GetTemplate(id)
	if err != nil {
		return err
	}

	if a.usageChecker != nil {
		inUse, err := a.usageChecker.TemplateInUse(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "failed to check usage of template %s", id)
		}

		if inUse {
			return errors.Wrapf(TemplateInUseErr, "Template with id '%s' is in use", id)
		}
	}

	return a.templateRepo.Delete(&tpl)
}

func (a *application) validateTemplate(template *Template) error {
	if _, ok := a.resolvers[template.TemplateResolver]; !ok {
		return errors.Wrapf(InvalidRequestErr, "Template resolver '%s' is not supported", template.TemplateResolver)
	}

	if len(template.OutputFormats) == 0 {
		return errors.Wrap(InvalidRequestErr, "Template must declare at least one output format")
	}

	if len(template.LocalizedTemplates) == 0 {
		return errors.Wrap(InvalidRequestErr, "Template must have at least one localized template")
	}

	return nil
}
