package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/globetrotter/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/config"
	"github.com/MrJamesThe3rd/globetrotter/internal/database"
	"github.com/MrJamesThe3rd/globetrotter/internal/importer"
	"github.com/MrJamesThe3rd/globetrotter/internal/store/sqlstore"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

type model struct {
	session *view.Session
	appName string

	currentView View
	// returnTo is where Esc on the trip detail goes back to.
	returnTo View

	tripsView   view.TripsModel
	formView    view.TripFormModel
	detailView  view.TripDetailModel
	exploreView view.ExploreModel

	width  int
	height int
}

type View int

const (
	ViewMenu    View = 0
	ViewTrips   View = 1
	ViewNewTrip View = 2
	ViewDetail  View = 3
	ViewExplore View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TUI.UserID == "" {
		slog.Error("TUI_USER_ID is required")
		os.Exit(1)
	}

	db, err := database.New(cfg.DB.Driver, cfg.DataSource())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// One user and one cache for the whole run: screens share fetched lists
	// and every write refreshes them.
	var (
		client = sqlstore.New(db)
		c      = cache.New()
		repos  = trip.NewRepositories(client, c)
		ctx    = auth.WithUser(context.Background(), cfg.TUI.UserID)
	)

	session := view.NewSession(ctx, repos, catalog.NewCities(client, c), importer.NewService(repos.Expenses))

	return model{
		session:     session,
		appName:     cfg.App.Name,
		currentView: ViewMenu,
		tripsView:   view.NewTripsModel(session),
		formView:    view.NewTripFormModel(session),
		exploreView: view.NewExploreModel(session),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTrips
				m.tripsView = view.NewTripsModel(m.session)

				return m, m.tripsView.Init()
			case "2":
				m.currentView = ViewNewTrip
				m.formView = view.NewTripFormModel(m.session)

				return m, m.formView.Init()
			case "3":
				m.currentView = ViewExplore
				m.exploreView = view.NewExploreModel(m.session)

				return m, m.exploreView.Init()
			}
		}
	case view.OpenTripMsg:
		m.returnTo = ViewTrips
		if m.currentView == ViewNewTrip {
			m.returnTo = ViewMenu
		}

		m.currentView = ViewDetail
		m.detailView = view.NewTripDetailModel(m.session, msg.ID)

		return m, m.detailView.Init()
	case view.BackMsg:
		if m.currentView == ViewDetail && m.returnTo == ViewTrips {
			m.currentView = ViewTrips
			return m, m.tripsView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewTrips:
		var newModel tea.Model
		newModel, cmd = m.tripsView.Update(msg)
		m.tripsView = newModel.(view.TripsModel)
	case ViewNewTrip:
		var newModel tea.Model
		newModel, cmd = m.formView.Update(msg)
		m.formView = newModel.(view.TripFormModel)
	case ViewDetail:
		var newModel tea.Model
		newModel, cmd = m.detailView.Update(msg)
		m.detailView = newModel.(view.TripDetailModel)
	case ViewExplore:
		var newModel tea.Model
		newModel, cmd = m.exploreView.Update(msg)
		m.exploreView = newModel.(view.ExploreModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. My Trips\n" +
				"2. Plan a New Trip\n" +
				"3. Explore Cities\n\n" +
				"q. Quit",
		)
	case ViewTrips:
		current = m.tripsView
	case ViewNewTrip:
		current = m.formView
	case ViewDetail:
		current = m.detailView
	case ViewExplore:
		current = m.exploreView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
