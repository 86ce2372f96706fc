package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	return fmt.Sprintf("%s%s.%s", sign, b.String(), frac)
}

// FormatDate renders an optional date, or "-" when unset.
func FormatDate(d *trip.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}

	return d.String()
}

// FormatDateRange renders "Mar 14 - Mar 20, 2026", collapsing what both ends
// share. Missing ends render as "?".
func FormatDateRange(start, end *trip.Date) string {
	switch {
	case (start == nil || start.IsZero()) && (end == nil || end.IsZero()):
		return "Dates not set"
	case end == nil || end.IsZero():
		return start.Time().Format("Jan 2, 2006") + " - ?"
	case start == nil || start.IsZero():
		return "? - " + end.Time().Format("Jan 2, 2006")
	}

	s, e := start.Time(), end.Time()
	if s.Year() == e.Year() {
		return s.Format("Jan 2") + " - " + e.Format("Jan 2, 2006")
	}

	return s.Format("Jan 2, 2006") + " - " + e.Format("Jan 2, 2006")
}

// parseOptionalDate reads a YYYY-MM-DD form field. Blank means unset.
func parseOptionalDate(s string) (*trip.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := trip.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("use YYYY-MM-DD")
	}

	return &d, nil
}

func parseOptionalMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}

	return d, nil
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func faint(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}
