package toml

import (
	"fmt"
	"time"
)

// Type identifies the kind of a stored value.
type Type int

// Value types. Every value in a document tree has exactly one of these.
const (
	TypeString Type = iota + 1
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeOffsetDateTime
	TypeLocalDateTime
	TypeLocalDate
	TypeLocalTime
	TypeArray
	TypeTable
)

var typeNames = map[Type][2]string{
	TypeString:         {"string", "string"},
	TypeInteger:        {"integer", "integer"},
	TypeFloat:          {"float", "float"},
	TypeBoolean:        {"boolean", "bool"},
	TypeOffsetDateTime: {"offset date-time", "datetime"},
	TypeLocalDateTime:  {"local date-time", "datetime-local"},
	TypeLocalDate:      {"local date", "date-local"},
	TypeLocalTime:      {"local time", "time-local"},
	TypeArray:          {"array", "array"},
	TypeTable:          {"table", "table"},
}

// String returns the name used in error messages.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n[0]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// JSONName returns the type tag used by the typed JSON output.
func (t Type) JSONName() string {
	if n, ok := typeNames[t]; ok {
		return n[1]
	}
	return ""
}

// TypeOf reports the type of v, or false if v is not a TOML value.
func TypeOf(v any) (Type, bool) {
	switch v.(type) {
	case string:
		return TypeString, true
	case int64:
		return TypeInteger, true
	case float64:
		return TypeFloat, true
	case bool:
		return TypeBoolean, true
	case time.Time:
		return TypeOffsetDateTime, true
	case LocalDateTime:
		return TypeLocalDateTime, true
	case LocalDate:
		return TypeLocalDate, true
	case LocalTime:
		return TypeLocalTime, true
	case *Array:
		return TypeArray, true
	case *Table:
		return TypeTable, true
	}
	return 0, false
}

// LocalDate is a calendar date without a time or offset.
type LocalDate struct {
	Year  int
	Month int
	Day   int
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// In returns midnight of d in loc.
func (d LocalDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// LocalTime is a time of day without a date or offset.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// String formats t as HH:MM:SS with the fraction, if any, trimmed of
// trailing zeros.
func (t LocalTime) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		s += trimFraction(t.Nanosecond)
	}
	return s
}

// LocalDateTime is a date and time without an offset.
type LocalDateTime struct {
	LocalDate
	LocalTime
}

func (dt LocalDateTime) String() string {
	return dt.LocalDate.String() + "T" + dt.LocalTime.String()
}

// In returns dt as an instant in loc.
func (dt LocalDateTime) In(loc *time.Location) time.Time {
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day,
		dt.Hour, dt.Minute, dt.Second, dt.Nanosecond, loc)
}

// trimFraction renders nanos as ".ddd" without trailing zeros.
func trimFraction(nanos int) string {
	s := fmt.Sprintf("%09d", nanos)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return "." + s
}
