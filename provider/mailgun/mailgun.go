package mailgun

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/mailgun/mailgun-go/v3"
	"github.com/pkg/errors"

	"github.com/interactive-solutions/go-template-engine"
)

type MailgunOption func(t *mailgunTransport) error

func SetFrom(from string) MailgunOption {
	return func(e *mailgunTransport) error {
		e.from = from
		return nil
	}
}

func SetReplyTo(replyTo string) MailgunOption {
	return func(e *mailgunTransport) error {
		e.replyTo = replyTo
		return nil
	}
}

type mailgunTransport struct {
	mg mailgun.Mailgun

	from    string
	replyTo string
}

func NewMailgunTransport(mailgunClient mailgun.Mailgun, options ...MailgunOption) (templateengine.EmailTransport, error) {
	t := &mailgunTransport{
		mg: mailgunClient,
	}

	for _, option := range options {
		if err := option(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Send mails the processed template with the header as subject. Barcode
// images are added as inline parts named after their content id, which is
// how mailgun resolves cid: references.
func (t *mailgunTransport) Send(ctx context.Context, email string, result *templateengine.ProcessingResult) error {
	text := result.Result.Body
	if result.IsHtml() {
		text = ""
	}

	msg := t.mg.NewMessage(t.from, result.Result.Header, text, email)

	if result.IsHtml() {
		msg.SetHtml(result.Result.Body)
	}

	for _, attachment := range result.Result.Attachments {
		content, err := attachment.Content()
		if err != nil {
			return err
		}

		msg.AddReaderInline(attachment.Name, ioutil.NopCloser(bytes.NewReader(content)))
	}

	if err := msg.AddTag(result.TemplateId, result.Meta.Lang); err != nil {
		return errors.Wrap(err, "Failed to add tags")
	}

	if t.replyTo != "" {
		msg.SetReplyTo(t.replyTo)
	}

	_, _, err := t.mg.Send(ctx, msg)
	return errors.Wrapf(err, "Failed to send template %s", result.TemplateId)
}
