// Package settings fetches the locale and time zone used when rendering
// templates from the settings service.
package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine"
	"github.com/interactive-solutions/go-template-engine/internal/retrylog"
)

const localePath = "/locale"

type ClientOption func(c *client)

func SetLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *client) {
		c.logger = logger
	}
}

// SetHeader adds a header to every request, typically an api key.
func SetHeader(name, value string) ClientOption {
	return func(c *client) {
		c.headers.Set(name, value)
	}
}

func SetRetries(max int, minWait time.Duration) ClientOption {
	return func(c *client) {
		c.http.RetryMax = max
		c.http.RetryWaitMin = minWait
	}
}

type client struct {
	http    *retryablehttp.Client
	logger  logrus.FieldLogger
	baseUrl string
	headers http.Header
}

func NewClient(baseUrl string, options ...ClientOption) templateengine.LocaleProvider {
	c := &client{
		http:    retryablehttp.NewClient(),
		logger:  logrus.New(),
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		headers: http.Header{},
	}

	c.http.RetryMax = 3

	for _, option := range options {
		option(c)
	}

	c.http.Logger = retrylog.New(c.logger)

	return c
}

func (c *client) LookupLocaleSettings(ctx context.Context) (templateengine.LocaleSettings, error) {
	settings := templateengine.LocaleSettings{}

	req, err := retryablehttp.NewRequest(http.MethodGet, c.baseUrl+localePath, nil)
	if err != nil {
		return settings, errors.Wrap(err, "failed to create locale settings request")
	}

	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", templateengine.UserAgent)

	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return settings, errors.Wrap(err, "failed to fetch locale settings")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return settings, errors.Errorf("Unexpected response code %d received from settings service", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return settings, errors.Wrap(err, "failed to decode locale settings")
	}

	if settings.LanguageTag == "" || settings.TimeZoneId == "" {
		c.logger.
			WithField("locale", settings.LanguageTag).
			WithField("timezone", settings.TimeZoneId).
			Debug("Incomplete locale settings, using defaults for missing values")
	}

	return settings.WithDefaults(), nil
}
