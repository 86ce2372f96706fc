package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
)

const explorePopularLimit = 20

// ExploreModel browses the city catalog: the most popular cities until a
// search is entered.
type ExploreModel struct {
	CommonModel
	session *Session

	input   textinput.Model
	table   table.Model
	cities  []catalog.City
	query   string
	loading bool
	err     error
}

func NewExploreModel(s *Session) ExploreModel {
	ti := textinput.New()
	ti.Placeholder = "Search cities or countries"
	ti.CharLimit = 60
	ti.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "City", Width: 20},
			{Title: "Country", Width: 18},
			{Title: "Region", Width: 16},
			{Title: "Cost", Width: 6},
			{Title: "Popularity", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return ExploreModel{
		session: s,
		input:   ti,
		table:   t,
		loading: true,
	}
}

func (m ExploreModel) Title() string { return "Explore Cities" }

func (m ExploreModel) ShortHelp() string {
	if m.input.Focused() {
		return "Enter: search | Esc: cancel"
	}

	return "Esc: back | /: search | c: clear search"
}

func (m ExploreModel) Init() tea.Cmd {
	return m.searchCmd("")
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case citiesLoadedMsg:
		if msg.query != m.query {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		m.cities = msg.cities
		m.setRows()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "/":
			m.table.Blur()
			m.input.SetValue(m.query)

			return m, m.input.Focus()
		case "c":
			if m.query == "" {
				return m, nil
			}

			m.query = ""
			m.loading = true

			return m, m.searchCmd("")
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExploreModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.table.Focus()

		return m, nil
	case tea.KeyEnter:
		m.input.Blur()
		m.table.Focus()
		m.query = strings.TrimSpace(m.input.Value())
		m.loading = true

		return m, m.searchCmd(m.query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *ExploreModel) setRows() {
	rows := make([]table.Row, 0, len(m.cities))
	for _, c := range m.cities {
		rows = append(rows, table.Row{
			c.Name,
			c.Country,
			deref(c.Region),
			c.CostIndex.StringFixed(1),
			strconv.Itoa(c.Popularity),
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m ExploreModel) View() string {
	heading := "Popular destinations"
	if m.query != "" {
		heading = fmt.Sprintf("Results for %q", m.query)
	}

	var body string

	switch {
	case m.loading:
		body = "Loading cities..."
	case m.err != nil:
		body = errorStyle(fmt.Sprintf("Error: %v", m.err))
	case len(m.cities) == 0:
		body = faint("No cities match.")
	default:
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		"",
		lipgloss.NewStyle().Bold(true).Render(heading),
		body,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type citiesLoadedMsg struct {
	query  string
	cities []catalog.City
	err    error
}

// searchCmd reads through the cache. Catalog rows never change here, so a
// repeated search is served from memory.
func (m ExploreModel) searchCmd(q string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.DbCtx()
		defer cancel()

		query := m.session.Cities.PopularQuery(explorePopularLimit)
		if q != "" {
			query = m.session.Cities.SearchQuery(q)
		}

		cities, err := query.Get(ctx)

		return citiesLoadedMsg{query: q, cities: cities, err: err}
	}
}
