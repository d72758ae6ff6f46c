package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2006-01-02 15:04:05",
	"01-02-06", // excelize default rendering of numFmt 14
}

// ParseDate parses an ISO or day-first date, or an Excel serial date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount parses money values such as "R$ 1.234,56", "1,234.56" and
// "1234.56". When both separators appear the last one is the decimal
// separator. A lone separator followed by exactly three digits ("1.234") is
// rejected as ambiguous.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}

		return r
	}, clean)

	if clean == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	plain, err := plainAmount(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", err, s)
	}

	d, err := decimal.NewFromString(plain)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognized amount %q", s)
	}

	return d, nil
}

var (
	errAmbiguousAmount = errors.New("ambiguous amount")
	errMalformedAmount = errors.New("malformed amount")
)

// plainAmount rewrites a grouped amount into "1234.56" form.
func plainAmount(s string) (string, error) {
	commas, dots := strings.Count(s, ","), strings.Count(s, ".")

	switch {
	case commas == 0 && dots == 0:
		return s, nil

	case commas > 0 && dots > 0:
		decimalSep, groupSep := ",", "."
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			decimalSep, groupSep = ".", ","
		}

		if strings.Count(s, decimalSep) != 1 {
			return "", errMalformedAmount
		}

		whole, frac, _ := strings.Cut(s, decimalSep)

		digits, ok := ungroup(whole, groupSep)
		if !ok {
			return "", errMalformedAmount
		}

		return digits + "." + frac, nil
	}

	sep, n := ",", commas
	if dots > 0 {
		sep, n = ".", dots
	}

	if n > 1 {
		digits, ok := ungroup(s, sep)
		if !ok {
			return "", errMalformedAmount
		}

		return digits, nil
	}

	whole, frac, _ := strings.Cut(s, sep)
	if len(frac) == 3 {
		if lead := strings.TrimPrefix(whole, "-"); lead != "" && lead != "0" && len(lead) <= 3 {
			return "", errAmbiguousAmount
		}
	}

	return whole + "." + frac, nil
}

// ungroup drops thousands separators from s. The leading group holds one to
// three digits and every following group exactly three.
func ungroup(s, sep string) (string, bool) {
	groups := strings.Split(s, sep)

	lead := strings.TrimPrefix(groups[0], "-")
	if lead == "" || len(lead) > 3 {
		return "", false
	}

	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}

	return strings.Join(groups, ""), true
}
