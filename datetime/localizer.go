// Package datetime rewrites ISO-8601 timestamps found in a context tree into
// locale formatted strings. The format is chosen by the key holding the value:
//
//	...DetailedDateTime  long date and short time (suffix matched case-insensitively)
//	...Date              short date
//	...DateTime          short date and short time
//
// Values that do not parse as timestamps are left as they are.
package datetime

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine/jsontree"
)

const (
	DefaultLanguageTag = "en-US"
	DefaultTimeZoneId  = "UTC"

	suffixDate             = "Date"
	suffixDateTime         = "DateTime"
	suffixDetailedDateTime = "detaileddatetime"
)

type style int

const (
	styleNone style = iota
	styleShortDate
	styleShortDateTime
	styleLongDateTime
)

func styleForKey(key string) style {
	switch {
	case strings.HasSuffix(strings.ToLower(key), suffixDetailedDateTime):
		return styleLongDateTime

	case strings.HasSuffix(key, suffixDate):
		return styleShortDate

	case strings.HasSuffix(key, suffixDateTime):
		return styleShortDateTime

	default:
		return styleNone
	}
}

type Localizer struct {
	logger   logrus.FieldLogger
	format   localeFormat
	location *time.Location
}

// NewLocalizer resolves the language tag and IANA time zone once. Unknown tags
// fall back to en-US and unknown zones to UTC.
func NewLocalizer(languageTag, timeZoneId string, logger logrus.FieldLogger) *Localizer {
	if logger == nil {
		logger = logrus.New()
	}

	format, ok := formatFor(languageTag)
	if !ok {
		logger.
			WithField("languageTag", languageTag).
			Warn("Unsupported language tag, falling back to " + DefaultLanguageTag)
	}

	location, err := time.LoadLocation(timeZoneId)
	if err != nil || timeZoneId == "" {
		logger.
			WithField("timeZoneId", timeZoneId).
			WithError(err).
			Warn("Unknown time zone, falling back to " + DefaultTimeZoneId)

		location = time.UTC
	}

	return &Localizer{
		logger:   logger,
		format:   format,
		location: location,
	}
}

// Localize rewrites every timestamp in tree in place.
func Localize(tree map[string]interface{}, languageTag, timeZoneId string) {
	NewLocalizer(languageTag, timeZoneId, nil).Localize(tree)
}

// Localize rewrites every timestamp in tree in place. Scalars inside lists
// take their format from the key of the innermost enclosing map.
func (l *Localizer) Localize(tree map[string]interface{}) {
	for _, leaf := range jsontree.Flatten(tree) {
		value, ok := leaf.AsString()
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}

		key, ok := leaf.Path.LastKey()
		if !ok {
			continue
		}

		localized, ok := l.LocalizeValue(key, value)
		if !ok {
			continue
		}

		if err := jsontree.Set(tree, leaf.Path, localized); err != nil {
			l.logger.
				WithField("path", leaf.Path.String()).
				WithError(err).
				Error("Failed to write localized date")
		}
	}
}

// LocalizeValue formats value according to the suffix of key. It returns false
// when the key carries no date suffix or the value is not a timestamp.
func (l *Localizer) LocalizeValue(key, value string) (string, bool) {
	s := styleForKey(key)
	if s == styleNone {
		return value, false
	}

	t, ok := Parse(value)
	if !ok {
		l.logger.
			WithField("key", key).
			WithField("value", value).
			Debug("Value is not a date, leaving it unchanged")

		return value, false
	}

	t = t.In(l.location)

	switch s {
	case styleShortDate:
		return l.format.formatShortDate(t), true

	case styleShortDateTime:
		return l.format.formatShortDateTime(t), true

	default:
		return l.format.formatLongDateTime(t), true
	}
}
