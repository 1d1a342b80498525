package templateengine

import (
	"context"

	"github.com/interactive-solutions/go-template-engine/datetime"
)

type LocaleSettings struct {
	LanguageTag string `json:"locale"`
	TimeZoneId  string `json:"timezone"`
}

var DefaultLocaleSettings = LocaleSettings{
	LanguageTag: datetime.DefaultLanguageTag,
	TimeZoneId:  datetime.DefaultTimeZoneId,
}

// WithDefaults fills in en-US and UTC for missing values.
func (s LocaleSettings) WithDefaults() LocaleSettings {
	if s.LanguageTag == "" {
		s.LanguageTag = DefaultLocaleSettings.LanguageTag
	}

	if s.TimeZoneId == "" {
		s.TimeZoneId = DefaultLocaleSettings.TimeZoneId
	}

	return s
}

type LocaleProvider interface {
	LookupLocaleSettings(ctx context.Context) (LocaleSettings, error)
}

// StaticLocaleProvider always returns the same settings.
type StaticLocaleProvider LocaleSettings

func (p StaticLocaleProvider) LookupLocaleSettings(ctx context.Context) (LocaleSettings, error) {
	return LocaleSettings(p).WithDefaults(), nil
}
