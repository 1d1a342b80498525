package datetime

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

type localeFormat struct {
	tag    language.Tag
	locale monday.Locale

	shortDate string
	longDate  string
	shortTime string

	// joins a date and a time, short and long date variants
	shortDateTime string
	longDateTime  string
}

// Go layouts following the CLDR short/long patterns of each locale. The first
// entry is the fallback for unknown language tags.
var localeFormats = []localeFormat{
	{
		tag: language.AmericanEnglish, locale: monday.LocaleEnUS,
		shortDate: "1/2/06", longDate: "January 2, 2006", shortTime: "3:04 PM",
		shortDateTime: "%s, %s", longDateTime: "%s at %s",
	},
	{
		tag: language.BritishEnglish, locale: monday.LocaleEnGB,
		shortDate: "02/01/2006", longDate: "2 January 2006", shortTime: "15:04",
		shortDateTime: "%s, %s", longDateTime: "%s at %s",
	},
	{
		tag: language.German, locale: monday.LocaleDeDE,
		shortDate: "02.01.06", longDate: "2. January 2006", shortTime: "15:04",
		shortDateTime: "%s, %s", longDateTime: "%s um %s",
	},
	{
		tag: language.French, locale: monday.LocaleFrFR,
		shortDate: "02/01/2006", longDate: "2 January 2006", shortTime: "15:04",
		shortDateTime: "%s %s", longDateTime: "%s à %s",
	},
	{
		tag: language.Spanish, locale: monday.LocaleEsES,
		shortDate: "2/1/06", longDate: "2 de January de 2006", shortTime: "15:04",
		shortDateTime: "%s, %s", longDateTime: "%s, %s",
	},
	{
		tag: language.Italian, locale: monday.LocaleItIT,
		shortDate: "02/01/06", longDate: "2 January 2006", shortTime: "15:04",
		shortDateTime: "%s, %s", longDateTime: "%s alle ore %s",
	},
	{
		tag: language.BrazilianPortuguese, locale: monday.LocalePtBR,
		shortDate: "02/01/2006", longDate: "2 de January de 2006", shortTime: "15:04",
		shortDateTime: "%s, %s", longDateTime: "%s às %s",
	},
	{
		tag: language.Dutch, locale: monday.LocaleNlNL,
		shortDate: "02-01-2006", longDate: "2 January 2006", shortTime: "15:04",
		shortDateTime: "%s, %s", longDateTime: "%s om %s",
	},
	{
		tag: language.Danish, locale: monday.LocaleDaDK,
		shortDate: "02.01.2006", longDate: "2. January 2006", shortTime: "15.04",
		shortDateTime: "%s %s", longDateTime: "%s kl. %s",
	},
	{
		tag: language.Swedish, locale: monday.LocaleSvSE,
		shortDate: "2006-01-02", longDate: "2 January 2006", shortTime: "15:04",
		shortDateTime: "%s %s", longDateTime: "%s kl. %s",
	},
	{
		tag: language.Japanese, locale: monday.LocaleJaJP,
		shortDate: "2006/01/02", longDate: "2006年1月2日", shortTime: "15:04",
		shortDateTime: "%s %s", longDateTime: "%s %s",
	},
}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, 0, len(localeFormats))
	for _, f := range localeFormats {
		tags = append(tags, f.tag)
	}

	return language.NewMatcher(tags)
}

// formatFor picks the closest supported locale for a BCP 47 language tag.
func formatFor(languageTag string) (localeFormat, bool) {
	tag, err := language.Parse(languageTag)
	if err != nil {
		return localeFormats[0], false
	}

	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return localeFormats[0], false
	}

	return localeFormats[index], true
}

func (f localeFormat) date(t time.Time, layout string) string {
	return monday.Format(t, layout, f.locale)
}

func (f localeFormat) formatShortDate(t time.Time) string {
	return f.date(t, f.shortDate)
}

func (f localeFormat) formatShortDateTime(t time.Time) string {
	return fmt.Sprintf(f.shortDateTime, f.date(t, f.shortDate), f.date(t, f.shortTime))
}

func (f localeFormat) formatLongDateTime(t time.Time) string {
	return fmt.Sprintf(f.longDateTime, f.date(t, f.longDate), f.date(t, f.shortTime))
}
