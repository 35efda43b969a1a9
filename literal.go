package toml

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// zeroFloat matches float text that really means zero. Any other text that
// parses to zero has underflowed.
var zeroFloat = regexp.MustCompile(`^[+-]?0+(\.0*)?([eE].*)?$`)

func decodeInteger(raw string) (int64, string) {
	clean := strings.ReplaceAll(raw, "_", "")
	if msg := checkInteger(raw, clean); msg != "" {
		return 0, msg
	}
	base := 10
	if len(clean) > 1 && clean[0] == '0' {
		switch clean[1] {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 10 {
			clean = clean[2:]
		}
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(clean, "+"), base, 64)
	if err != nil {
		return 0, "Integer is too large"
	}
	return n, ""
}

func decodeFloat(raw string) (float64, string) {
	switch raw {
	case "inf", "+inf":
		return math.Inf(1), ""
	case "-inf":
		return math.Inf(-1), ""
	case "nan", "+nan", "-nan":
		return math.NaN(), ""
	}
	clean := strings.ReplaceAll(raw, "_", "")
	if msg := checkFloat(raw, clean); msg != "" {
		return 0, msg
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(clean, "+"), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, "Invalid floating point number: " + raw
	}
	if math.IsInf(f, 0) {
		return 0, "Float is too large"
	}
	if f == 0 && !zeroFloat.MatchString(clean) {
		return 0, "Float is too small"
	}
	return f, ""
}

func decodeBoolean(raw string) (bool, string) {
	switch raw {
	case "true":
		return true, ""
	case "false":
		return false, ""
	}
	return false, fmt.Sprintf("Invalid boolean %q", raw)
}

// --- Number text checks ---

func checkInteger(raw, clean string) string {
	if hasSignedPrefix(clean) {
		return fmt.Sprintf("Sign not allowed on %s integer: %s", clean[1:3], raw)
	}
	if hasUnsignedPrefix(clean) {
		switch clean[1] {
		case 'x':
			return checkPrefixIntBody(raw, clean, "0x", isHexDigit)
		case 'o':
			return checkPrefixIntBody(raw, clean, "0o", isOctDigit)
		default:
			return checkPrefixIntBody(raw, clean, "0b", isBinDigit)
		}
	}
	if msg := checkLeadingZeros(raw, clean); msg != "" {
		return msg
	}
	num := stripSign(clean)
	if num == "" {
		return fmt.Sprintf("Invalid integer: %s", raw)
	}
	for i := 0; i < len(num); i++ {
		if !isDigitByte(num[i]) {
			return fmt.Sprintf("Invalid character in integer: %s", raw)
		}
	}
	return validateUnderscores(raw)
}

func hasUnsignedPrefix(clean string) bool {
	return len(clean) > 1 && clean[0] == '0' && (clean[1] == 'x' || clean[1] == 'o' || clean[1] == 'b')
}

func hasSignedPrefix(clean string) bool {
	return len(clean) > 2 && (clean[0] == '+' || clean[0] == '-') && hasUnsignedPrefix(clean[1:])
}

func checkPrefixIntBody(raw, clean, prefix string, validDigit func(byte) bool) string {
	body := clean[len(prefix):]
	if body == "" {
		return fmt.Sprintf("Incomplete %s integer: %s", prefix, raw)
	}
	for i := 0; i < len(body); i++ {
		if !validDigit(body[i]) {
			return fmt.Sprintf("Invalid digit in %s integer: %s", prefix, raw)
		}
	}
	return checkUnderscoresIn(raw, len(prefix))
}

func checkLeadingZeros(raw, clean string) string {
	num := stripSign(clean)
	if len(num) > 1 && num[0] == '0' && num[1] != '.' && num[1] != 'e' && num[1] != 'E' {
		return fmt.Sprintf("Leading zeros not allowed: %s", raw)
	}
	return ""
}

func stripSign(s string) string {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

func checkFloat(raw, clean string) string {
	if msg := checkLeadingZeros(raw, clean); msg != "" {
		return msg
	}
	num := stripSign(clean)
	for i := 0; i < len(num); i++ {
		c := num[i]
		if !isDigitByte(c) && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return fmt.Sprintf("Invalid character in float: %s", raw)
		}
	}
	if strings.Count(num, ".") > 1 {
		return fmt.Sprintf("Multiple dots in float: %s", raw)
	}
	if strings.Count(num, "e")+strings.Count(num, "E") > 1 {
		return fmt.Sprintf("Multiple exponents in float: %s", raw)
	}
	if msg := checkUnderscoreAdjacent(raw); msg != "" {
		return msg
	}
	if msg := validateUnderscores(raw); msg != "" {
		return msg
	}

	dot := strings.IndexByte(num, '.')
	exp := strings.IndexAny(num, "eE")
	if dot >= 0 {
		if exp >= 0 && dot > exp {
			return fmt.Sprintf("Dot after exponent: %s", raw)
		}
		if dot == 0 {
			return fmt.Sprintf("No digits before decimal point: %s", raw)
		}
		frac := num[dot+1:]
		if exp >= 0 {
			frac = num[dot+1 : exp]
		}
		if frac == "" {
			return fmt.Sprintf("No digits after decimal point: %s", raw)
		}
	}
	if exp >= 0 {
		if exp == 0 {
			return fmt.Sprintf("No digits before exponent: %s", raw)
		}
		e := stripSign(num[exp+1:])
		if e == "" {
			return fmt.Sprintf("No digits in exponent: %s", raw)
		}
		for i := 0; i < len(e); i++ {
			if !isDigitByte(e[i]) {
				return fmt.Sprintf("Invalid exponent: %s", raw)
			}
		}
	}
	for i := 0; i < len(num); i++ {
		if (num[i] == '+' || num[i] == '-') && (i == 0 || (num[i-1] != 'e' && num[i-1] != 'E')) {
			return fmt.Sprintf("Invalid character in float: %s", raw)
		}
	}
	return ""
}

func checkUnderscoreAdjacent(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '_' {
			continue
		}
		if i > 0 && isFloatSeparator(raw[i-1]) {
			return fmt.Sprintf("Underscore after %c: %s", raw[i-1], raw)
		}
		if i+1 < len(raw) && isFloatSeparator(raw[i+1]) {
			return fmt.Sprintf("Underscore before %c: %s", raw[i+1], raw)
		}
	}
	return ""
}

func isFloatSeparator(c byte) bool {
	return c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

func validateUnderscores(raw string) string {
	start := 0
	if len(raw) > 0 && (raw[0] == '+' || raw[0] == '-') {
		start = 1
	}
	return checkUnderscoresIn(raw, start)
}

func checkUnderscoresIn(s string, start int) string {
	body := s[start:]
	if body == "" {
		return ""
	}
	if body[0] == '_' {
		return fmt.Sprintf("Leading underscore: %s", s)
	}
	if body[len(body)-1] == '_' {
		return fmt.Sprintf("Trailing underscore: %s", s)
	}
	if strings.Contains(body, "__") {
		return fmt.Sprintf("Double underscore: %s", s)
	}
	return ""
}

func isHexDigit(c byte) bool {
	return isDigitByte(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
