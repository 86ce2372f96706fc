package view

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

// tripFields back the form inputs. Model copies share them through the
// pointer.
type tripFields struct {
	name        string
	description string
	start       string
	end         string
	budget      string
	public      bool
}

type TripFormModel struct {
	CommonModel
	session *Session

	fields *tripFields
	form   *huh.Form
	create *cache.Mutation[trip.CreateTripParams, *trip.Trip]
	saving bool
	errs   trip.FieldErrors
}

func NewTripFormModel(s *Session) TripFormModel {
	m := TripFormModel{
		session: s,
		fields:  &tripFields{},
		create:  cache.NewMutation(s.Repos.Trips.Create),
	}
	m.form = m.buildForm()

	return m
}

func (m TripFormModel) Title() string     { return "Plan a Trip" }
func (m TripFormModel) ShortHelp() string { return "Tab: next field | Enter: submit | Esc: cancel" }

func (m TripFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m TripFormModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trip name").
				Placeholder(trip.DefaultTripName).
				CharLimit(100).
				Value(&m.fields.name),
			huh.NewText().
				Title("Description").
				CharLimit(500).
				Lines(3).
				Value(&m.fields.description),
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.start).
				Validate(validDate),
			huh.NewInput().
				Title("End date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.end).
				Validate(validDate),
			huh.NewInput().
				Title("Total budget").
				Placeholder("0.00").
				Value(&m.fields.budget).
				Validate(func(s string) error {
					d, err := parseOptionalMoney(s)
					if err != nil {
						return err
					}

					if d.IsNegative() {
						return fmt.Errorf("budget cannot be negative")
					}

					return nil
				}),
			huh.NewConfirm().
				Title("Share publicly?").
				Value(&m.fields.public),
		),
	).WithWidth(60).WithShowHelp(false)
}

func validDate(s string) error {
	_, err := parseOptionalDate(s)
	return err
}

func (m TripFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tripCreatedMsg:
		m.saving = false

		if msg.err != nil {
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		id := msg.trip.ID

		return m, func() tea.Msg { return OpenTripMsg{ID: id} }

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
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
	m.saving = true

	return m, m.submitCmd(params)
}

// params validates the filled form the same way the API does.
func (m TripFormModel) params() (trip.CreateTripParams, trip.FieldErrors) {
	f := m.fields

	start, _ := parseOptionalDate(f.start)
	end, _ := parseOptionalDate(f.end)
	budget, _ := parseOptionalMoney(f.budget)

	if errs := trip.ValidateTripDraft(trip.TripDraft{
		Name:        f.name,
		Description: f.description,
		StartDate:   start,
		EndDate:     end,
		TotalBudget: budget,
	}); errs != nil {
		return trip.CreateTripParams{}, errs
	}

	p := trip.CreateTripParams{
		Name:        strings.TrimSpace(f.name),
		StartDate:   start,
		EndDate:     end,
		IsPublic:    f.public,
		TotalBudget: budget,
	}

	if desc := strings.TrimSpace(f.description); desc != "" {
		p.Description = &desc
	}

	return p, nil
}

func (m TripFormModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Plan a new trip"))
	b.WriteString("\n\n")

	for _, field := range slices.Sorted(maps.Keys(m.errs)) {
		b.WriteString(errorStyle("• "+m.errs[field]) + "\n")
	}

	if err := m.create.Err(); err != nil && !m.saving {
		b.WriteString(errorStyle(fmt.Sprintf("Error: %v", err)) + "\n")
	}

	if m.saving {
		b.WriteString(faint("Saving..."))
	} else {
		b.WriteString(m.form.View())
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Messages

type tripCreatedMsg struct {
	trip *trip.Trip
	err  error
}

func (m TripFormModel) submitCmd(p trip.CreateTripParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		t, err := m.create.Execute(ctx, p)

		return tripCreatedMsg{trip: t, err: err}
	}
}
