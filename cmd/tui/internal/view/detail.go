package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/globetrotter/internal/itinerary"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

type detailFocus int

const (
	focusActivities detailFocus = iota
	focusExpenses
)

// TripDetailModel shows one trip: its budget, stops, schedule and expenses.
// Adding or importing expenses opens a sub-screen on top of it.
type TripDetailModel struct {
	CommonModel
	session *Session
	tripID  string

	overview *trip.Overview
	loading  bool

	focus      detailFocus
	activities table.Model
	expenses   table.Model
	schedule   []trip.Activity

	child  View
	form   *huh.Form
	status string
}

func NewTripDetailModel(s *Session, tripID string) TripDetailModel {
	activities := table.New(
		table.WithColumns([]table.Column{
			{Title: "Day", Width: 22},
			{Title: "Time", Width: 6},
			{Title: "Activity", Width: 26},
			{Title: "Cost", Width: 10},
			{Title: "Done", Width: 4},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	activities.SetStyles(tableStyles())

	expenses := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Category", Width: 14},
			{Title: "Description", Width: 26},
			{Title: "Amount", Width: 14},
		}),
		table.WithHeight(8),
	)
	expenses.SetStyles(tableStyles())

	return TripDetailModel{
		session:    s,
		tripID:     tripID,
		loading:    true,
		activities: activities,
		expenses:   expenses,
	}
}

func (m TripDetailModel) Title() string {
	if m.overview != nil && m.overview.Trip != nil {
		return m.overview.Trip.Name
	}

	return "Trip"
}

func (m TripDetailModel) ShortHelp() string {
	if m.child != nil {
		return m.child.ShortHelp()
	}

	return "Esc: back | Tab: switch table | Space: toggle done | a: add expense | i: import | x: delete expense | r: refresh"
}

func (m TripDetailModel) Init() tea.Cmd {
	return m.loadCmd(false)
}

func (m TripDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		m.loading = false
		m.overview = msg.overview
		m.setRows()

		return m, nil

	case childDoneMsg:
		m.child = nil
		return m, m.loadCmd(false)

	case activityToggledMsg, expenseDeletedMsg:
		if err := mutationErr(msg); err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
		}

		return m, m.loadCmd(false)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}

	if m.child != nil {
		child, cmd := m.child.Update(msg)
		if v, ok := child.(View); ok {
			m.child = v
		}

		return m, cmd
	}

	if m.form != nil {
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		return m, m.loadCmd(true)
	case "tab":
		m.switchFocus()
		return m, nil
	case "a":
		if m.overview == nil || m.overview.Trip == nil {
			return m, nil
		}

		child := NewExpenseFormModel(m.session, m.tripID, m.overview.Stops)
		m.child = child

		return m, child.Init()
	case "i":
		if m.overview == nil || m.overview.Trip == nil {
			return m, nil
		}

		child := NewImportModel(m.session, m.tripID)
		m.child = child

		return m, child.Init()
	case " ":
		if m.focus != focusActivities {
			return m, nil
		}

		if a, ok := m.selectedActivity(); ok {
			return m, m.toggleCmd(a)
		}

		return m, nil
	case "x":
		if m.focus != focusExpenses {
			return m, nil
		}

		if _, ok := m.selectedExpense(); !ok {
			return m, nil
		}

		m.form = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Delete this expense?").
				Affirmative("Delete").
				Negative("Keep"),
		)).WithShowHelp(false)

		return m, m.form.Init()
	}

	var cmd tea.Cmd
	if m.focus == focusActivities {
		m.activities, cmd = m.activities.Update(msg)
	} else {
		m.expenses, cmd = m.expenses.Update(msg)
	}

	return m, cmd
}

func (m TripDetailModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := m.form.GetBool("confirm")
	m.form = nil

	e, ok := m.selectedExpense()
	if !confirmed || !ok {
		return m, nil
	}

	return m, m.deleteExpenseCmd(e.ID)
}

func (m *TripDetailModel) switchFocus() {
	if m.focus == focusActivities {
		m.focus = focusExpenses
		m.activities.Blur()
		m.expenses.Focus()

		return
	}

	m.focus = focusActivities
	m.expenses.Blur()
	m.activities.Focus()
}

func (m *TripDetailModel) setRows() {
	o := m.overview
	if o == nil {
		return
	}

	m.schedule = nil

	var activityRows []table.Row

	for _, g := range itinerary.GroupByDate(o.Activities) {
		for i, a := range g.Activities {
			day := ""
			if i == 0 {
				day = g.Title()
			}

			done := ""
			if a.IsCompleted {
				done = "✓"
			}

			activityRows = append(activityRows, table.Row{
				day,
				deref(a.ScheduledTime),
				a.Name,
				FormatMoney(a.Cost),
				done,
			})
			m.schedule = append(m.schedule, a)
		}
	}

	m.activities.SetRows(activityRows)

	expenseRows := make([]table.Row, 0, len(o.Expenses))
	for _, e := range o.Expenses {
		expenseRows = append(expenseRows, table.Row{
			FormatDate(e.ExpenseDate),
			itinerary.CategoryLabel(e.Category),
			deref(e.Description),
			FormatMoney(e.Amount) + " " + e.Currency,
		})
	}

	m.expenses.SetRows(expenseRows)
}

func (m TripDetailModel) selectedActivity() (trip.Activity, bool) {
	idx := m.activities.Cursor()
	if idx < 0 || idx >= len(m.schedule) {
		return trip.Activity{}, false
	}

	return m.schedule[idx], true
}

func (m TripDetailModel) selectedExpense() (trip.Expense, bool) {
	if m.overview == nil {
		return trip.Expense{}, false
	}

	idx := m.expenses.Cursor()
	if idx < 0 || idx >= len(m.overview.Expenses) {
		return trip.Expense{}, false
	}

	return m.overview.Expenses[idx], true
}

func (m TripDetailModel) View() string {
	if m.child != nil {
		return m.child.View()
	}

	if m.loading && m.overview == nil {
		return lipgloss.NewStyle().Padding(2).Render("Loading trip...")
	}

	o := m.overview
	if o.TripErr != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", o.TripErr)))
	}

	t := o.Trip
	now := m.session.Now()

	header := lipgloss.NewStyle().Bold(true).Render(t.Name) + "  " +
		activeStyle(itinerary.Status(t.StartDate, t.EndDate, now).String())

	dates := FormatDateRange(t.StartDate, t.EndDate)
	if days, ok := itinerary.DurationDays(t.StartDate, t.EndDate); ok {
		dates += fmt.Sprintf(" (%d days)", days)
	}

	lines := []string{header, faint(dates)}
	if t.Description != nil && *t.Description != "" {
		lines = append(lines, *t.Description)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Budget", m.budgetView()),
		panel("Stops", m.stopsView()),
	)

	activitiesTitle, expensesTitle := "Schedule", "Expenses"
	if m.focus == focusActivities {
		activitiesTitle = activeStyle(activitiesTitle)
	} else {
		expensesTitle = activeStyle(expensesTitle)
	}

	activities := sectionView(activitiesTitle, o.ActivitiesErr, len(m.schedule) == 0, "No activities planned.", m.activities.View())
	expenses := sectionView(expensesTitle, o.ExpensesErr, len(o.Expenses) == 0, "No expenses logged.", m.expenses.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		"",
		top,
		"",
		activities,
		"",
		expenses,
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Confirm", m.form.View()))
	}

	if m.status != "" {
		content = faint(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m TripDetailModel) budgetView() string {
	o := m.overview
	if o.ExpensesErr != nil || o.ActivitiesErr != nil {
		return errorStyle("Budget unavailable")
	}

	spent := itinerary.TotalCost(o.Expenses, o.Activities)
	remaining := itinerary.Remaining(o.Trip.TotalBudget, spent)

	remainingText := FormatMoney(remaining)
	if remaining.IsNegative() {
		remainingText = errorStyle(remainingText + " over")
	}

	lines := []string{
		fmt.Sprintf("Budget     %s", FormatMoney(o.Trip.TotalBudget)),
		fmt.Sprintf("Expenses   %s", FormatMoney(itinerary.ExpenseTotal(o.Expenses))),
		fmt.Sprintf("Activities %s", FormatMoney(itinerary.ActivityTotal(o.Activities))),
		fmt.Sprintf("Remaining  %s", remainingText),
	}

	breakdown := itinerary.Breakdown(o.Expenses)
	if len(breakdown) > 0 {
		lines = append(lines, "")
	}

	for _, c := range breakdown {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %-14s %s", swatch, c.Label, FormatMoney(c.Total)))
	}

	return strings.Join(lines, "\n")
}

func (m TripDetailModel) stopsView() string {
	o := m.overview
	if o.StopsErr != nil {
		return errorStyle(fmt.Sprintf("Error: %v", o.StopsErr))
	}

	if len(o.Stops) == 0 {
		return faint("No stops yet.")
	}

	lines := make([]string, 0, len(o.Stops))
	for i, s := range o.Stops {
		place := s.CityName
		if s.Country != nil {
			place += ", " + *s.Country
		}

		line := fmt.Sprintf("%d. %s  %s", i+1, place, faint(FormatDateRange(s.StartDate, s.EndDate)))
		if cost := itinerary.StopActivityTotal(o.Activities, s.ID); cost.IsPositive() {
			line += "  " + FormatMoney(cost)
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func panel(title, body string) string {
	return lipgloss.NewStyle().
		Padding(0, 1).
		MarginRight(1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(lipgloss.NewStyle().Bold(true).Render(title) + "\n" + body)
}

func sectionView(title string, err error, empty bool, emptyText, body string) string {
	switch {
	case err != nil:
		body = errorStyle(fmt.Sprintf("Error: %v", err))
	case empty:
		body = faint(emptyText)
	}

	return lipgloss.NewStyle().Bold(true).Render(title) + "\n" + body
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Messages

type overviewLoadedMsg struct {
	overview *trip.Overview
}

type activityToggledMsg struct {
	err error
}

type expenseDeletedMsg struct {
	err error
}

func mutationErr(msg tea.Msg) error {
	switch msg := msg.(type) {
	case activityToggledMsg:
		return msg.err
	case expenseDeletedMsg:
		return msg.err
	}

	return nil
}

// loadCmd reads the four sections through the cache. With refresh set,
// every section is invalidated first.
func (m TripDetailModel) loadCmd(refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		return overviewLoadedMsg{overview: trip.CachedOverview(ctx, m.session.Repos, m.tripID, refresh)}
	}
}

func (m TripDetailModel) toggleCmd(a trip.Activity) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		_, err := m.session.Repos.Activities.SetCompleted(ctx, a.ID, !a.IsCompleted)

		return activityToggledMsg{err: err}
	}
}

func (m TripDetailModel) deleteExpenseCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		return expenseDeletedMsg{err: m.session.Repos.Expenses.Delete(ctx, id)}
	}
}
