package provider

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/pkg/errors"

	"github.com/interactive-solutions/go-template-engine"
)

const base64LineLength = 76

type sesTransport struct {
	ses sesiface.SESAPI

	from    string
	charset string
}

func NewSesTransport(sess *session.Session, from string) templateengine.EmailTransport {
	return newSesTransport(ses.New(sess), from)
}

func newSesTransport(api sesiface.SESAPI, from string) *sesTransport {
	return &sesTransport{
		ses:     api,
		from:    from,
		charset: "UTF-8",
	}
}

// Send uses a raw message since the simple SES api can not carry the inline
// barcode images.
func (transport *sesTransport) Send(ctx context.Context, email string, result *templateengine.ProcessingResult) error {
	raw, err := transport.buildRawMessage(email, result)
	if err != nil {
		return err
	}

	input := &ses.SendRawEmailInput{
		Source:       aws.String(transport.from),
		Destinations: []*string{aws.String(email)},
		RawMessage: &ses.RawMessage{
			Data: raw,
		},
	}

	_, err = transport.ses.SendRawEmailWithContext(ctx, input)
	return errors.Wrapf(err, "Failed to send template %s", result.TemplateId)
}

// buildRawMessage lays out a multipart/related message: the rendered body
// first, followed by one part per attachment carrying its Content-ID.
func (transport *sesTransport) buildRawMessage(email string, result *templateengine.ProcessingResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	headers := []struct{ name, value string }{
		{"From", transport.from},
		{"To", email},
		{"Subject", mime.QEncoding.Encode(transport.charset, result.Result.Header)},
		{"MIME-Version", "1.0"},
		{"Content-Type", fmt.Sprintf("multipart/related; boundary=%q", writer.Boundary())},
	}

	for _, h := range headers {
		fmt.Fprintf(buf, "%s: %s\r\n", h.name, h.value)
	}
	buf.WriteString("\r\n")

	contentType := "text/plain"
	if result.IsHtml() {
		contentType = "text/html"
	}

	body, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("%s; charset=%s", contentType, transport.charset)},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create body part")
	}

	qp := quotedprintable.NewWriter(body)
	if _, err := qp.Write([]byte(result.Result.Body)); err != nil {
		return nil, errors.Wrap(err, "failed to write body part")
	}
	if err := qp.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to write body part")
	}

	for _, attachment := range result.Result.Attachments {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {mime.FormatMediaType(attachment.ContentType, map[string]string{"name": attachment.Name})},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Id":                {attachment.ContentId},
			"Content-Disposition":       {mime.FormatMediaType(attachment.Disposition, map[string]string{"filename": attachment.Name})},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create attachment part %s", attachment.Name)
		}

		data := attachment.Data
		for len(data) > base64LineLength {
			fmt.Fprintf(part, "%s\r\n", data[:base64LineLength])
			data = data[base64LineLength:]
		}
		fmt.Fprintf(part, "%s\r\n", data)
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finish raw message")
	}

	return buf.Bytes(), nil
}
