package normalize

import (
	"strconv"
	"strings"
)

// monthLabels are the short Spanish labels shown on charts, indexed by month-1.
var monthLabels = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

var englishMonths = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	monthNumberKeys = []string{"month_number", "monthNumber", "month_num", "month"}
	monthDateKeys   = []string{"date", "period"}
	monthNameKeys   = []string{"month_name", "monthName", "month", "name"}
	monthRawKeys    = []string{"date", "period", "month_name", "monthName", "month", "label", "name"}
)

// MonthLabel resolves the short label of a monthly record. The first rule
// that succeeds wins:
//  1. an explicit numeric month field;
//  2. a numeric month token in the date, split on "-" or "/";
//  3. an English month name;
//  4. the raw date or name string.
func MonthLabel(rec map[string]any) string {
	for _, k := range monthNumberKeys {
		if m, ok := monthNumber(rec[k]); ok {
			return monthShortLabel(m)
		}
	}
	for _, k := range monthDateKeys {
		if s, ok := rec[k].(string); ok {
			if m, ok := monthFromDate(s); ok {
				return monthShortLabel(m)
			}
		}
	}
	for _, k := range monthNameKeys {
		if s, ok := rec[k].(string); ok {
			if m, ok := englishMonths[strings.ToLower(strings.TrimSpace(s))]; ok {
				return monthShortLabel(m)
			}
		}
	}
	for _, k := range monthRawKeys {
		if s := String(rec[k], ""); s != "" {
			return s
		}
	}
	return ""
}

// monthShortLabel returns the label for month m (1-12) or "".
func monthShortLabel(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthLabels[m-1]
}

func monthNumber(v any) (int, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, n >= 1 && n <= 12
	}
	f := Money(v)
	n := int(f)
	return n, float64(n) == f && n >= 1 && n <= 12
}

// monthFromDate picks the month token by position: YYYY-MM[-DD] and DD/MM/YYYY
// carry it second, M-YYYY first.
func monthFromDate(s string) (int, bool) {
	tokens := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	if len(tokens) == 0 {
		return 0, false
	}
	pos := 0
	if len(tokens) >= 2 && isYear(tokens[0]) || len(tokens) == 3 && isYear(tokens[2]) {
		pos = 1
	}
	n, err := strconv.Atoi(tokens[pos])
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

func isYear(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	_, err := strconv.Atoi(tok)
	return err == nil
}
