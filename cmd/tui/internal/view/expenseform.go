package view

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/globetrotter/internal/itinerary"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

type expenseFields struct {
	category    string
	amount      string
	currency    string
	date        string
	stopID      string
	description string
}

// ExpenseFormModel logs one expense against a trip.
type ExpenseFormModel struct {
	CommonModel
	session *Session
	tripID  string
	stops   []trip.Stop

	fields *expenseFields
	form   *huh.Form
	saving bool
	errs   trip.FieldErrors
	err    error
}

func NewExpenseFormModel(s *Session, tripID string, stops []trip.Stop) ExpenseFormModel {
	m := ExpenseFormModel{
		session: s,
		tripID:  tripID,
		stops:   stops,
		fields: &expenseFields{
			category: string(trip.CategoryOther),
			currency: trip.DefaultCurrency,
			date:     trip.DateOf(s.Now()).String(),
		},
	}
	m.form = m.buildForm()

	return m
}

func (m ExpenseFormModel) Title() string     { return "Add Expense" }
func (m ExpenseFormModel) ShortHelp() string { return "Tab: next field | Enter: submit | Esc: cancel" }

func (m ExpenseFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExpenseFormModel) buildForm() *huh.Form {
	categories := make([]huh.Option[string], 0, len(trip.ExpenseCategories))
	for _, c := range trip.ExpenseCategories {
		categories = append(categories, huh.NewOption(itinerary.CategoryLabel(c), string(c)))
	}

	stops := []huh.Option[string]{huh.NewOption("Whole trip", "")}
	for _, s := range m.stops {
		stops = append(stops, huh.NewOption(s.CityName, s.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&m.fields.category),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&m.fields.amount).
				Validate(func(s string) error {
					_, err := parseOptionalMoney(s)
					return err
				}),
			huh.NewInput().
				Title("Currency").
				CharLimit(3).
				Value(&m.fields.currency),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.date).
				Validate(validDate),
			huh.NewSelect[string]().
				Title("Stop").
				Options(stops...).
				Value(&m.fields.stopID),
			huh.NewInput().
				Title("Description").
				CharLimit(500).
				Value(&m.fields.description),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ExpenseFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expenseCreatedMsg:
		m.saving = false

		if msg.err != nil {
			m.err = msg.err
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, closeChild

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, closeChild
		}
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params, errs := m.params()
	if errs != nil {
		m.errs = errs
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	m.errs = nil
	m.err = nil
	m.saving = true

	return m, m.submitCmd(params)
}

func (m ExpenseFormModel) params() (trip.CreateExpenseParams, trip.FieldErrors) {
	f := m.fields

	amount, _ := parseOptionalMoney(f.amount)
	date, _ := parseOptionalDate(f.date)
	description := strings.TrimSpace(f.description)

	if errs := trip.ValidateExpenseDraft(trip.ExpenseDraft{
		Category:    f.category,
		Amount:      amount,
		Description: description,
	}); errs != nil {
		return trip.CreateExpenseParams{}, errs
	}

	currency := strings.ToUpper(strings.TrimSpace(f.currency))
	if currency == "" {
		currency = trip.DefaultCurrency
	}

	p := trip.CreateExpenseParams{
		TripID:      m.tripID,
		Category:    trip.ExpenseCategory(f.category),
		Amount:      amount,
		Currency:    currency,
		ExpenseDate: date,
	}

	if description != "" {
		p.Description = &description
	}

	if f.stopID != "" {
		p.TripStopID = &f.stopID
	}

	return p, nil
}

func (m ExpenseFormModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Add expense"))
	b.WriteString("\n\n")

	for _, field := range slices.Sorted(maps.Keys(m.errs)) {
		b.WriteString(errorStyle("• "+m.errs[field]) + "\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	if m.saving {
		b.WriteString(faint("Saving..."))
	} else {
		b.WriteString(m.form.View())
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Messages

type expenseCreatedMsg struct {
	err error
}

func (m ExpenseFormModel) submitCmd(p trip.CreateExpenseParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		_, err := m.session.Repos.Expenses.Create(ctx, p)

		return expenseCreatedMsg{err: err}
	}
}
