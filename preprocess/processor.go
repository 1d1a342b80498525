// Package preprocess prepares a template and its context for substitution:
// date companions are added, timestamps localized and barcode values turned
// into inline images.
package preprocess

import (
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine/datetime"
)

type Option func(p *Processor)

func SetLogger(logger logrus.FieldLogger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

func SetBarcodeMarkers(markers ...string) Option {
	return func(p *Processor) {
		p.markers = markers
	}
}

// Output is the template text and attachments after preprocessing.
type Output struct {
	Header      string
	Body        string
	Attachments []Attachment
}

// Processor runs the preprocessing steps in their required order. It holds no
// per-request state and is safe for concurrent use.
type Processor struct {
	logger  logrus.FieldLogger
	encoder BarcodeEncoder
	markers []string
}

func NewProcessor(encoder BarcodeEncoder, options ...Option) *Processor {
	p := &Processor{
		logger:  logrus.New(),
		encoder: encoder,
		markers: DefaultBarcodeMarkers,
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// Process mutates tree in place and returns the rewritten template text.
// Enrichment runs before localization so the added companions get the raw
// timestamps, and barcodes run last.
func (p *Processor) Process(header, body string, tree map[string]interface{}, languageTag, timeZoneId string) (Output, error) {
	EnrichDateTimes(tree, p.logger)

	datetime.NewLocalizer(languageTag, timeZoneId, p.logger).Localize(tree)

	expander := NewBarcodeExpander(p.encoder, p.markers, p.logger)

	header, body, attachments, err := expander.Expand(header, body, tree)
	if err != nil {
		return Output{}, err
	}

	return Output{
		Header:      header,
		Body:        body,
		Attachments: attachments,
	}, nil
}
