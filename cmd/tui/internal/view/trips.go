package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/globetrotter/internal/itinerary"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

type tripsState int

const (
	tripsStateBrowse tripsState = iota
	tripsStateSearch
	tripsStateConfirmDelete
)

type TripsModel struct {
	CommonModel
	session *Session

	state   tripsState
	table   table.Model
	all     []trip.Trip
	shown   []trip.Trip
	form    *huh.Form

	upcomingOnly bool
	query        string

	loading bool
	err     error
	status  string
}

func NewTripsModel(s *Session) TripsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Dates", Width: 26},
		{Title: "Status", Width: 12},
		{Title: "Budget", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return TripsModel{
		session: s,
		table:   t,
		loading: true,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m TripsModel) Title() string { return "My Trips" }

func (m TripsModel) ShortHelp() string {
	if m.state != tripsStateBrowse {
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: open | /: search | u: upcoming | x: delete | r: refresh"
}

func (m TripsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TripsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tripsLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.all = msg.trips
			m.applyFilter()
		}

		return m, nil

	case tripDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Trip deleted."
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case tripsStateSearch, tripsStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m TripsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.refreshCmd()
		case "u":
			m.upcomingOnly = !m.upcomingOnly
			m.applyFilter()

			return m, nil
		case "/":
			query := m.query

			m.state = tripsStateSearch
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewInput().Key("query").Title("Search trips").Value(&query),
			)).WithWidth(40).WithShowHelp(false)
			m.table.Blur()

			return m, m.form.Init()
		case "x":
			if _, ok := m.selected(); !ok {
				return m, nil
			}

			m.state = tripsStateConfirmDelete
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Key("confirm").
					Title("Delete this trip and everything in it?").
					Affirmative("Delete").
					Negative("Keep"),
			)).WithShowHelp(false)
			m.table.Blur()

			return m, m.form.Init()
		case "enter":
			if t, ok := m.selected(); ok {
				id := t.ID
				return m, func() tea.Msg { return OpenTripMsg{ID: id} }
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TripsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = tripsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state, done := m.state, m.form
	m.state = tripsStateBrowse
	m.form = nil
	m.table.Focus()

	if state == tripsStateSearch {
		m.query = done.GetString("query")
		m.applyFilter()

		return m, nil
	}

	if !done.GetBool("confirm") {
		return m, nil
	}

	t, ok := m.selected()
	if !ok {
		return m, nil
	}

	return m, m.deleteCmd(t.ID)
}

func (m TripsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading trips...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	scope := "All"
	if m.upcomingOnly {
		scope = "Upcoming"
	}

	search := "-"
	if m.query != "" {
		search = m.query
	}

	header := fmt.Sprintf("[u] Showing: %s | [/] Search: %s | %d of %d trips",
		activeStyle(scope), activeStyle(search), len(m.shown), len(m.all))

	body := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if len(m.all) == 0 {
		body = faint("No trips yet. Press 2 on the main menu to plan one.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faint(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TripsModel) applyFilter() {
	shown := itinerary.Search(m.all, m.query)
	if m.upcomingOnly {
		shown = itinerary.Upcoming(shown, m.session.Now(), 0)
	}

	m.shown = shown

	now := m.session.Now()
	rows := make([]table.Row, 0, len(shown))

	for _, t := range shown {
		rows = append(rows, table.Row{
			t.Name,
			FormatDateRange(t.StartDate, t.EndDate),
			itinerary.Status(t.StartDate, t.EndDate, now).String(),
			FormatMoney(t.TotalBudget),
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m TripsModel) selected() (trip.Trip, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.shown) {
		return trip.Trip{}, false
	}

	return m.shown[idx], true
}

// Messages

type tripsLoadedMsg struct {
	trips []trip.Trip
	err   error
}

type tripDeletedMsg struct {
	err error
}

// loadCmd reads through the cache, so returning to this screen after a
// read-only visit elsewhere does not hit the store.
func (m TripsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		q, err := m.session.Repos.Trips.ListQuery(ctx)
		if err != nil {
			return tripsLoadedMsg{err: err}
		}

		trips, err := q.Get(ctx)

		return tripsLoadedMsg{trips: trips, err: err}
	}
}

func (m TripsModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		q, err := m.session.Repos.Trips.ListQuery(ctx)
		if err != nil {
			return tripsLoadedMsg{err: err}
		}

		q.Invalidate()
		trips, err := q.Get(ctx)

		return tripsLoadedMsg{trips: trips, err: err}
	}
}

func (m TripsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		return tripDeletedMsg{err: m.session.Repos.Trips.Delete(ctx, id)}
	}
}
