package loader

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var integerLiteral = regexp.MustCompile(`^[+-]?\d+$`)

// numberShape accepts digits with optional sign, group/decimal separators,
// exponent and a trailing percent sign. Anything else is never numeric, so
// "NaN", "Inf" and "12 apples" stay text.
var numberShape = regexp.MustCompile(`^[+-]?[\d.,' \x{00A0}]*\d[\d.,' \x{00A0}]*([eE][+-]?\d+)?\s*%?$`)

func parseInteger(s string) (int64, bool) {
	if !integerLiteral.MatchString(s) {
		return 0, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

var (
	commaGroups = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}(,\d{3})+$`)
	dotGroups   = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}(\.\d{3})+$`)
	quoteGroups = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}('\d{3})+([.,]\d+)?$`)
)

// parseNumeric parses a decimal honoring the configured separators. Spaces
// group digits only with ThousandsSeparator ' ', apostrophes only in groups of
// three. Without a configured locale, see detectSeparators.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if !numberShape.MatchString(raw) {
		return 0, false
	}
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	if strings.Contains(raw, " ") {
		if opt.ThousandsSeparator != ' ' {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, " ", "")
	}
	if strings.Contains(raw, "'") {
		if !quoteGroups.MatchString(raw) {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, "'", "")
	}

	dec, thou := opt.DecimalSeparator, opt.ThousandsSeparator
	switch {
	case dec != 0:
	case thou == '.':
		dec = ','
	case thou == ',' || thou == ' ':
		dec = '.'
	default:
		var ok bool
		if dec, thou, ok = detectSeparators(raw); !ok {
			return 0, false
		}
	}
	if thou == 0 || thou == ' ' {
		for _, sep := range []rune{',', '.'} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// detectSeparators guesses the locale of one value. With both ',' and '.',
// the last one is the decimal point. A repeated separator groups thousands and
// must split the digits in threes. A single ',' is grouping when it splits off
// exactly three digits after a non-zero lead ("1,000"), otherwise decimal ("1,5").
// A single '.' is always decimal.
func detectSeparators(raw string) (dec, thou rune, ok bool) {
	commas, dots := strings.Count(raw, ","), strings.Count(raw, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			return ',', '.', true
		}
		return '.', ',', true
	case commas > 1:
		return '.', ',', commaGroups.MatchString(raw)
	case commas == 1 && commaGroups.MatchString(raw):
		return '.', ',', true
	case commas == 1:
		return ',', '.', true
	case dots > 1:
		return ',', '.', dotGroups.MatchString(raw)
	default:
		return '.', ',', true
	}
}

func parseTime(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
