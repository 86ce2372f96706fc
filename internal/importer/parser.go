// Package importer turns expense spreadsheets and bank statement exports into
// trip expenses.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

var ErrUnknownFormat = errors.New("no matching CSV format: expected date and amount columns")

// delimiters are tried in order until one yields a recognised header.
var delimiters = []rune{';', ',', '\t'}

// categoryAliases maps free-form category names onto the known expense
// categories. Anything else is imported as other.
var categoryAliases = map[string]trip.ExpenseCategory{
	"flight":     trip.CategoryTransport,
	"flights":    trip.CategoryTransport,
	"train":      trip.CategoryTransport,
	"taxi":       trip.CategoryTransport,
	"bus":        trip.CategoryTransport,
	"car rental": trip.CategoryTransport,
	"hotel":      trip.CategoryAccommodation,
	"hostel":     trip.CategoryAccommodation,
	"lodging":    trip.CategoryAccommodation,
	"restaurant": trip.CategoryFood,
	"groceries":  trip.CategoryFood,
	"meals":      trip.CategoryFood,
	"drinks":     trip.CategoryFood,
	"tours":      trip.CategoryActivities,
	"tickets":    trip.CategoryActivities,
	"museum":     trip.CategoryActivities,
	"souvenirs":  trip.CategoryShopping,
}

// Parse reads a CSV file of expenses. The header is found by its column
// names, so preamble lines before it are ignored. The returned params have no
// trip set.
func Parse(r io.Reader) ([]trip.CreateExpenseParams, error) {
	decoded, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	for _, comma := range delimiters {
		records, err := readRecords(data, comma)
		if err != nil {
			continue
		}

		l, cols, header := detectLayout(records)
		if l == nil {
			continue
		}

		return parseRecords(l, cols, records[header+1:])
	}

	return nil, ErrUnknownFormat
}

// record is one CSV row and the line it starts on.
type record struct {
	line  int
	cells []string
}

func readRecords(data []byte, comma rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
}

// columns maps a lower-cased header name to its index.
type columns map[string]int

// find returns the index of the first of names present in the header, or -1.
func (c columns) find(names []string) int {
	for _, n := range names {
		if i, ok := c[n]; ok {
			return i
		}
	}

	return -1
}

func detectLayout(records []record) (*layout, columns, int) {
	for rowIdx, rec := range records {
		cols := make(columns, len(rec.cells))

		for i, cell := range rec.cells {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, dup := cols[name]; name != "" && !dup {
				cols[name] = i
			}
		}

		for i := range layouts {
			if matches(&layouts[i], cols) {
				return &layouts[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matches(l *layout, cols columns) bool {
	for _, names := range l.required() {
		if cols.find(names) < 0 {
			return false
		}
	}

	return true
}

type rowIndex struct {
	date, description, category, currency int
	amount, debit, credit                 int
}

func parseRecords(l *layout, cols columns, records []record) ([]trip.CreateExpenseParams, error) {
	idx := rowIndex{
		date:        cols.find(l.date),
		description: cols.find(l.description),
		category:    cols.find(l.category),
		currency:    cols.find(l.currency),
		amount:      cols.find(l.amount),
		debit:       cols.find(l.debit),
		credit:      cols.find(l.credit),
	}

	params := []trip.CreateExpenseParams{}

	for _, rec := range records {
		if blank(rec.cells) {
			continue
		}

		p, ok, err := parseRow(l, idx, rec.cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}

		if ok {
			params = append(params, p)
		}
	}

	return params, nil
}

// parseRow returns ok=false for rows that are not spending: credits, zero
// amounts and, for lenient layouts, lines without a date.
func parseRow(l *layout, idx rowIndex, row []string) (trip.CreateExpenseParams, bool, error) {
	var p trip.CreateExpenseParams

	date, err := parseDate(cell(row, idx.date), l.dateFormats)
	switch {
	case err != nil && l.lenient:
		return p, false, nil
	case err != nil:
		return p, false, err
	case date == nil && l.lenient:
		return p, false, nil
	}

	amount, ok, err := spending(l, idx, row)
	if err != nil || !ok {
		return p, false, err
	}

	desc := cell(row, idx.description)
	if l.lenient && desc == "" {
		return p, false, errors.New("missing description")
	}

	category := normalizeCategory(cell(row, idx.category))

	if fe := trip.ValidateExpenseDraft(trip.ExpenseDraft{
		Category:    string(category),
		Amount:      amount,
		Description: desc,
	}); fe != nil {
		return p, false, fe
	}

	p.Category = category
	p.Amount = amount
	p.ExpenseDate = date

	if desc != "" {
		p.Description = &desc
	}

	p.Currency = strings.ToUpper(cell(row, idx.currency))
	if p.Currency == "" {
		p.Currency = l.defaultCurrency
	}

	return p, true, nil
}

func spending(l *layout, idx rowIndex, row []string) (decimal.Decimal, bool, error) {
	switch l.mode {
	case amountSigned:
		s := cell(row, idx.amount)
		if s == "" {
			return decimal.Zero, false, nil
		}

		d, err := parseAmount(s)
		if err != nil {
			return decimal.Zero, false, nil
		}

		return d.Neg(), d.IsNegative(), nil
	case amountSplit:
		s := cell(row, idx.debit)
		if s == "" {
			return decimal.Zero, false, nil
		}

		d, err := parseAmount(s)
		if err != nil || d.IsZero() {
			return decimal.Zero, false, nil
		}

		return d.Abs(), true, nil
	}

	d, err := parseAmount(cell(row, idx.amount))
	if err != nil {
		return decimal.Zero, false, err
	}

	return d, true, nil
}

func parseDate(s string, formats []string) (*trip.Date, error) {
	if s == "" {
		return nil, nil
	}

	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return new(trip.DateOf(t)), nil
		}
	}

	return nil, fmt.Errorf("unrecognised date %q", s)
}

func normalizeCategory(s string) trip.ExpenseCategory {
	s = strings.ToLower(strings.TrimSpace(s))

	if c := trip.ExpenseCategory(s); c.Known() {
		return c
	}

	if c, ok := categoryAliases[s]; ok {
		return c
	}

	return trip.CategoryOther
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
