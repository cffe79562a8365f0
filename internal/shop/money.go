package shop

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in cents.
type Money int64

// Dollars builds a Money from whole dollars and cents.
func Dollars(dollars, cents int64) Money {
	return Money(dollars*100 + cents)
}

// Mul multiplies m by n.
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

// Percent returns pct percent of m, rounded down to the cent.
func (m Money) Percent(pct int) Money {
	return m * Money(pct) / 100
}

// String formats m for logs. Pages use a Formatter.
func (m Money) String() string {
	sign, v := "", int64(m)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Formatter renders money for a locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "en-US".
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}, nil
}

// Format renders m with grouping and two decimals, e.g. "$1,234.50".
func (f *Formatter) Format(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return sign + f.symbol + f.printer.Sprintf("%.2f", float64(m)/100)
}
