package preprocess

import (
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine/barcode"
	"github.com/interactive-solutions/go-template-engine/jsontree"
)

const (
	suffixImage = "Image"

	dispositionInline  = "inline"
	contentIdTemplate  = "barcode_%s"
	htmlImageTemplate  = "<img src='cid:%s' alt='%s'>"
	attachmentIdFormat = "<%s>"
)

// DefaultBarcodeMarkers are the path suffixes identifying barcode values.
var DefaultBarcodeMarkers = []string{".barcode", "Hrid"}

var tokenPattern = regexp.MustCompile(`\{\{([.a-zA-Z0-9]+)\}\}`)

type BarcodeEncoder interface {
	EncodeBase64(value string) (string, error)
}

// Attachment is a binary part referenced from the rendered output by its
// content id.
type Attachment struct {
	ContentId   string `json:"contentId"`
	ContentType string `json:"contentType"`
	Disposition string `json:"disposition"`
	Name        string `json:"name"`
	Data        string `json:"data"`
}

// Content decodes the base64 data.
func (a Attachment) Content() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Data)
	return data, errors.Wrapf(err, "failed to decode attachment %s", a.Name)
}

// BarcodeExpander turns barcode values into inline images for templates that
// ask for them with a "<path>Image" token.
type BarcodeExpander struct {
	logger  logrus.FieldLogger
	encoder BarcodeEncoder
	markers []string
}

func NewBarcodeExpander(encoder BarcodeEncoder, markers []string, logger logrus.FieldLogger) *BarcodeExpander {
	if len(markers) == 0 {
		markers = DefaultBarcodeMarkers
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &BarcodeExpander{
		logger:  logger,
		encoder: encoder,
		markers: markers,
	}
}

// Expand writes an <img> tag next to every barcode value whose image token is
// used by the template, creates one attachment per distinct barcode value and
// returns header and body with the image tokens switched to the unescaped form.
func (e *BarcodeExpander) Expand(header, body string, tree map[string]interface{}) (string, string, []Attachment, error) {
	tokens := Tokens(header + body)

	var attachments []Attachment
	created := map[string]bool{}
	introduced := map[string]bool{}

	for _, leaf := range jsontree.Flatten(tree) {
		value, ok := leaf.AsString()
		if !ok || strings.TrimSpace(value) == "" || !e.isBarcode(leaf.Path) {
			continue
		}

		imageToken := leaf.Path.Short() + suffixImage
		imagePath, ok := leaf.Path.WithSuffix(suffixImage)
		if !ok || !tokens[imageToken] {
			continue
		}

		contentId := fmt.Sprintf(contentIdTemplate, value)
		if !created[contentId] {
			attachments = append(attachments, e.attachment(value, contentId))
			created[contentId] = true
		}

		escaped := html.EscapeString(contentId)

		if err := jsontree.Set(tree, imagePath, fmt.Sprintf(htmlImageTemplate, escaped, escaped)); err != nil {
			return header, body, nil, errors.Wrapf(err, "failed to add barcode image for %s", leaf.Path)
		}

		introduced[imageToken] = true
	}

	for token := range introduced {
		header = UnescapeToken(header, token)
		body = UnescapeToken(body, token)
	}

	return header, body, attachments, nil
}

func (e *BarcodeExpander) isBarcode(path jsontree.Path) bool {
	p := path.String()

	for _, marker := range e.markers {
		if strings.HasSuffix(p, marker) {
			return true
		}
	}

	return false
}

func (e *BarcodeExpander) attachment(value, contentId string) Attachment {
	data, err := e.encoder.EncodeBase64(value)
	if err != nil {
		e.logger.
			WithField("barcode", value).
			WithError(err).
			Warn("Image generation for barcode failed")
	}

	// Webmail clients only resolve cid: references when the header value
	// is wrapped in angle brackets.
	return Attachment{
		ContentId:   fmt.Sprintf(attachmentIdFormat, contentId),
		ContentType: barcode.MimeTypePng,
		Disposition: dispositionInline,
		Name:        contentId,
		Data:        data,
	}
}

// Tokens lists the dotted paths referenced by {{...}} placeholders in text.
// Triple braced placeholders are included.
func Tokens(text string) map[string]bool {
	tokens := map[string]bool{}

	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		tokens[match[1]] = true
	}

	return tokens
}

// UnescapeToken rewrites every {{token}} in text to {{{token}}}. Occurrences
// that are already triple braced are kept as they are.
func UnescapeToken(text, token string) string {
	pattern := regexp.MustCompile(`\{?\{\{` + regexp.QuoteMeta(token) + `\}\}\}?`)

	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		lead, trail := "", ""
		if strings.HasPrefix(match, "{{{") {
			lead = "{"
		}
		if strings.HasSuffix(match, "}}}") {
			trail = "}"
		}

		if lead != "" && trail != "" {
			return match
		}

		return lead + "{{{" + token + "}}}" + trail
	})
}
