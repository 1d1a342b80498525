package elks

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine"
	"github.com/interactive-solutions/go-template-engine/internal/retrylog"
)

const elksApi = "https://api.46elks.com/a1/sms"

type ElksOption func(e *elks)

func SetEndpoint(endpoint string) ElksOption {
	return func(e *elks) {
		e.endpoint = endpoint
	}
}

func SetLogger(logger logrus.FieldLogger) ElksOption {
	return func(e *elks) {
		e.client.Logger = retrylog.New(logger)
	}
}

func SetRetryMax(max int) ElksOption {
	return func(e *elks) {
		e.client.RetryMax = max
	}
}

// elks is an sms transport for 46elks
type elks struct {
	client   *retryablehttp.Client
	endpoint string

	from string

	username string
	password string
}

func New46ElksClient(from, username, password string, options ...ElksOption) templateengine.SmsTransport {
	e := &elks{
		client:   retryablehttp.NewClient(),
		endpoint: elksApi,

		from:     from,
		username: username,
		password: password,
	}

	e.client.Logger = retrylog.New(logrus.New())

	for _, option := range options {
		option(e)
	}

	return e
}

func (e *elks) Send(ctx context.Context, number string, message string) error {
	body := url.Values{
		"from":    {e.from},
		"to":      {number},
		"message": {message},
	}.Encode()

	req, err := retryablehttp.NewRequest(http.MethodPost, e.endpoint, bytes.NewReader([]byte(body)))
	if err != nil {
		return err
	}

	req = req.WithContext(ctx)
	req.SetBasicAuth(e.username, e.password)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.Header.Set("User-Agent", templateengine.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 || resp.StatusCode <= 199 {
		return errors.Errorf("Unexpected response code %d received from 46elks", resp.StatusCode)
	}

	return nil
}
