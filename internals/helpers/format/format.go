// Package format renders values the way the dashboard shows them (pt-BR).
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"condoku_backend/internals/helpers/dbtime"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency formats an amount as BRL, e.g. "R$ 1.234,56".
func Currency(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "R$ " + groupThousands(intPart) + "," + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Number groups thousands with "." and keeps up to three decimals.
func Number(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Percentage keeps one decimal: 12.345 -> "12.3%".
func Percentage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Date renders dd/mm/yyyy using the calendar date of t.
func Date(t time.Time) string {
	return t.Format(dbtime.LayoutBRDate)
}

// DateString reformats an ISO or Brazilian date string; unparsable input is returned as is.
func DateString(s string) string {
	t, err := dbtime.ParseDate(s)
	if err != nil {
		return s
	}
	return Date(t)
}

// DateForInput renders yyyy-mm-dd, the value format of an HTML date input.
func DateForInput(t time.Time) string {
	return t.UTC().Format(dbtime.LayoutISODate)
}
