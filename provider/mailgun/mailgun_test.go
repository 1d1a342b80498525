package mailgun

import (
	"context"
	"encoding/base64"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mailgun/mailgun-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactive-solutions/go-template-engine"
)

type capturedMessage struct {
	fields map[string]string
	inline map[string]string
}

func newServer(t *testing.T, captured *capturedMessage) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		require.NoError(t, r.ParseMultipartForm(1<<20))

		captured.fields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			captured.fields[key] = strings.Join(values, ",")
		}

		captured.inline = map[string]string{}
		for _, header := range r.MultipartForm.File["inline"] {
			f, err := header.Open()
			require.NoError(t, err)

			data, err := ioutil.ReadAll(f)
			require.NoError(t, err)
			f.Close()

			captured.inline[header.Filename] = string(data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"<20190618140433.1.ABC@mg.example.com>","message":"Queued. Thank you."}`))
	}))
}

func TestHtmlResultIsSentWithInlineBarcodes(t *testing.T) {
	captured := &capturedMessage{}
	server := newServer(t, captured)
	defer server.Close()

	mg := mailgun.NewMailgun("mg.example.com", "key-test")
	mg.SetAPIBase(server.URL + "/v3")

	transport, err := NewMailgunTransport(mg, SetFrom("library@example.com"), SetReplyTo("desk@example.com"))
	require.NoError(t, err)

	result := &templateengine.ProcessingResult{
		TemplateId: "receipt",
		Result: templateengine.Result{
			Header: "Your receipt",
			Body:   "<p><img src='cid:barcode_1234' alt='barcode_1234'></p>",
			Attachments: []templateengine.Attachment{{
				ContentId:   "<barcode_1234>",
				ContentType: "image/png",
				Disposition: "inline",
				Name:        "barcode_1234",
				Data:        base64.StdEncoding.EncodeToString([]byte("png bytes")),
			}},
		},
		Meta: templateengine.Meta{Lang: "en", OutputFormat: "html"},
	}

	require.NoError(t, transport.Send(context.Background(), "user@example.com", result))

	assert.Equal(t, "user@example.com", captured.fields["to"])
	assert.Equal(t, "Your receipt", captured.fields["subject"])
	assert.Equal(t, result.Result.Body, captured.fields["html"])
	assert.Equal(t, map[string]string{"barcode_1234": "png bytes"}, captured.inline)
}

func TestBrokenAttachmentIsAnError(t *testing.T) {
	mg := mailgun.NewMailgun("mg.example.com", "key-test")

	transport, err := NewMailgunTransport(mg)
	require.NoError(t, err)

	err = transport.Send(context.Background(), "user@example.com", &templateengine.ProcessingResult{
		Result: templateengine.Result{
			Attachments: []templateengine.Attachment{{Name: "barcode_1234", Data: "not base64!"}},
		},
	})
	assert.Error(t, err)
}
