package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// yyyy-MM-ddTHH:mm[:ss[.fraction]] with an optional offset in one of the forms
// Z, +HH, +HHMM or +HH:MM.
var isoDateTime = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?(Z|[+-]\d{2}(?::?\d{2})?)?$`,
)

const maxOffsetHours = 18

// Parse reads an ISO-8601 local date time with an optional UTC offset. A value
// without an offset is taken to be UTC.
func Parse(value string) (time.Time, bool) {
	m := isoDateTime.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, false
	}

	year := atoi(m[1])
	month := atoi(m[2])
	day := atoi(m[3])
	hour := atoi(m[4])
	minute := atoi(m[5])
	second := atoi(m[6])
	nanos := atoi((m[7] + "000000000")[:9])

	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	location, ok := offsetLocation(m[8])
	if !ok {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nanos, location)

	// time.Date normalizes February 30th into March
	if t.Day() != day {
		return time.Time{}, false
	}

	return t, true
}

func offsetLocation(offset string) (*time.Location, bool) {
	if offset == "" || offset == "Z" {
		return time.UTC, true
	}

	sign := 1
	if offset[0] == '-' {
		sign = -1
	}

	digits := strings.Replace(offset[1:], ":", "", 1)
	hours := atoi(digits[:2])

	minutes := 0
	if len(digits) == 4 {
		minutes = atoi(digits[2:])
	}

	if hours > maxOffsetHours || minutes > 59 {
		return nil, false
	}

	return time.FixedZone("", sign*(hours*3600+minutes*60)), true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}

	n, _ := strconv.Atoi(s)
	return n
}
