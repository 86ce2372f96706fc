package importer

type amountMode int

const (
	// amountPlain is a positive amount per row, as written by hand or by a
	// spreadsheet export of a trip's expenses.
	amountPlain amountMode = iota
	// amountSigned is one signed column where spending is negative and
	// credits are skipped.
	amountSigned
	// amountSplit is a debit and a credit column; only debits are spending.
	amountSplit
)

// layout describes the header of one supported CSV shape. Every column lists
// the header names it accepts, compared case-insensitively.
type layout struct {
	name        string
	date        []string
	description []string
	category    []string
	currency    []string
	mode        amountMode
	amount      []string
	debit       []string
	credit      []string
	dateFormats []string
	// defaultCurrency applies when the layout has no currency column.
	defaultCurrency string
	// lenient layouts skip rows whose date does not parse. Bank statements
	// end with balance and footer lines.
	lenient bool
}

func (l *layout) required() [][]string {
	cols := [][]string{l.date}

	switch l.mode {
	case amountPlain, amountSigned:
		cols = append(cols, l.amount)
	case amountSplit:
		cols = append(cols, l.debit, l.credit)
	}

	if l.lenient {
		cols = append(cols, l.description)
	}

	return cols
}

// layouts are tried in order, most specific first.
var layouts = []layout{
	{
		name:            "card statement",
		date:            []string{"data"},
		description:     []string{"descrição", "descricao"},
		mode:            amountSplit,
		debit:           []string{"débito", "debito"},
		credit:          []string{"crédito", "credito"},
		dateFormats:     []string{"02-01-2006", "02/01/2006"},
		defaultCurrency: "EUR",
		lenient:         true,
	},
	{
		name:            "account statement",
		date:            []string{"data mov.", "data movimento"},
		description:     []string{"descrição", "descricao"},
		mode:            amountSigned,
		amount:          []string{"montante", "movimento"},
		dateFormats:     []string{"02-01-2006", "02/01/2006"},
		defaultCurrency: "EUR",
		lenient:         true,
	},
	{
		name:        "expenses",
		date:        []string{"date", "expense_date", "expense date"},
		description: []string{"description", "notes", "note"},
		category:    []string{"category", "type"},
		currency:    []string{"currency"},
		mode:        amountPlain,
		amount:      []string{"amount", "cost", "price"},
		dateFormats: []string{"2006-01-02", "02/01/2006", "02-01-2006", "02.01.2006"},
	},
}
