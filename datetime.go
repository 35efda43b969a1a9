package toml

import (
	"strings"
	"time"

	"github.com/maurice/tomltree/internal/syntax"
)

// dateTimeDecoder decodes offset date-times, local date-times, local dates and
// local times. Each component is checked on its own so errors point at the
// component.
type dateTimeDecoder struct {
	raw     string
	pos     syntax.Pos
	version Version
}

func decodeDateTime(raw string, pos syntax.Pos, version Version) (any, error) {
	d := &dateTimeDecoder{raw: raw, pos: pos, version: version}
	return d.decode()
}

func (d *dateTimeDecoder) errorAt(off int, format string, args ...any) *ParseError {
	return newParseError(toPosition(d.pos.Advance(d.raw[:off])), format, args...)
}

func (d *dateTimeDecoder) decode() (any, error) {
	if len(d.raw) > 2 && d.raw[2] == ':' {
		t, end, err := d.time(0)
		if err != nil {
			return nil, err
		}
		if end != len(d.raw) {
			return nil, d.errorAt(end, "Invalid local time")
		}
		return t, nil
	}

	sep := strings.IndexAny(d.raw, "Tt ")
	if sep < 0 {
		return d.date(0, len(d.raw))
	}
	date, err := d.date(0, sep)
	if err != nil {
		return nil, err
	}
	if sep+1 >= len(d.raw) {
		return nil, d.errorAt(sep, "Invalid date-time: missing time")
	}
	t, end, err := d.time(sep + 1)
	if err != nil {
		return nil, err
	}
	local := LocalDateTime{LocalDate: date, LocalTime: t}
	if end == len(d.raw) {
		return local, nil
	}
	loc, err := d.offset(end)
	if err != nil {
		return nil, err
	}
	return local.In(loc), nil
}

// date decodes YYYY-MM-DD from raw[start:end], starting from 1900-01-01 and
// replacing year, month and day in turn.
func (d *dateTimeDecoder) date(start, end int) (LocalDate, error) {
	date := LocalDate{Year: 1900, Month: 1, Day: 1}
	parts := strings.Split(d.raw[start:end], "-")
	if len(parts) != 3 {
		return date, d.errorAt(start, "Invalid date")
	}
	off := start

	year, ok := digits(parts[0], 4)
	if !ok {
		return date, d.errorAt(off, "Invalid year (valid range 0000..9999)")
	}
	date.Year = year
	off += len(parts[0]) + 1

	month, ok := digits(parts[1], 2)
	if !ok || month < 1 || month > 12 {
		return date, d.errorAt(off, "Invalid month (valid range 01..12)")
	}
	date.Month = month
	off += len(parts[1]) + 1

	day, ok := digits(parts[2], 2)
	if !ok || day < 1 || day > 31 {
		return date, d.errorAt(off, "Invalid day (valid range 01..28/31)")
	}
	if last := daysIn(date.Year, date.Month); day > last {
		m := time.Month(date.Month)
		if m == time.February && day == 29 {
			return date, d.errorAt(off, "Invalid date 'February 29' as '%d' is not a leap year", date.Year)
		}
		return date, d.errorAt(off, "Invalid date '%s %d'", m, day)
	}
	date.Day = day
	return date, nil
}

// time decodes HH:MM[:SS[.fraction]] starting at start and returns the offset
// just past it.
func (d *dateTimeDecoder) time(start int) (LocalTime, int, error) {
	var t LocalTime
	end := start
	for end < len(d.raw) && (isDigitByte(d.raw[end]) || d.raw[end] == ':' || d.raw[end] == '.') {
		end++
	}
	text := d.raw[start:end]
	frac := ""
	if i := strings.IndexByte(text, '.'); i >= 0 {
		text, frac = text[:i], text[i+1:]
	}
	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return t, 0, d.errorAt(start, "Invalid time")
	}
	off := start

	hour, ok := digits(parts[0], 2)
	if !ok || hour > 23 {
		return t, 0, d.errorAt(off, "Invalid hour (valid range 00..23)")
	}
	t.Hour = hour
	off += len(parts[0]) + 1

	minute, ok := digits(parts[1], 2)
	if !ok || minute > 59 {
		return t, 0, d.errorAt(off, "Invalid minute (valid range 00..59)")
	}
	t.Minute = minute
	off += len(parts[1]) + 1

	if len(parts) == 2 {
		if d.version.before(V1_1_0) {
			return t, 0, d.errorAt(start, "Invalid time: seconds are required (TOML versions before 1.1.0)")
		}
		if frac != "" || strings.Contains(d.raw[start:end], ".") {
			return t, 0, d.errorAt(off-1, "Invalid time: fractional seconds without seconds")
		}
		return t, end, nil
	}

	second, ok := digits(parts[2], 2)
	if !ok || second > 59 {
		return t, 0, d.errorAt(off, "Invalid second (valid range 00..59)")
	}
	t.Second = second
	off += len(parts[2])

	if strings.Contains(d.raw[start:end], ".") {
		if _, ok := digits(frac, len(frac)); !ok || frac == "" {
			return t, 0, d.errorAt(off, "Invalid fractional seconds")
		}
		// Digits past nanosecond precision are truncated.
		frac = (frac + "000000000")[:9]
		t.Nanosecond, _ = digits(frac, 9)
	}
	return t, end, nil
}

// offset decodes Z or ±HH:MM, which must run to the end of the text.
func (d *dateTimeDecoder) offset(start int) (*time.Location, error) {
	text := d.raw[start:]
	if text == "Z" || text == "z" {
		return time.UTC, nil
	}
	if len(text) != 6 || (text[0] != '+' && text[0] != '-') || text[3] != ':' {
		return nil, d.errorAt(start, "Invalid offset")
	}
	hours, ok := digits(text[1:3], 2)
	if !ok || hours > 23 {
		return nil, d.errorAt(start+1, "Invalid offset hours (valid range 00..23)")
	}
	minutes, ok := digits(text[4:6], 2)
	if !ok || minutes > 59 {
		return nil, d.errorAt(start+4, "Invalid offset minutes (valid range 00..59)")
	}
	secs := hours*3600 + minutes*60
	if text[0] == '-' {
		secs = -secs
	}
	if secs == 0 {
		return time.UTC, nil
	}
	return time.FixedZone("", secs), nil
}

// digits parses s as exactly n decimal digits.
func digits(s string, n int) (int, bool) {
	if len(s) != n {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		if !isDigitByte(s[i]) {
			return 0, false
		}
		v = v*10 + int(s[i]-'0')
	}
	return v, true
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
