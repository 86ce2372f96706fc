package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/importer"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

const dbTimeout = 5 * time.Second

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// childDoneMsg tells a screen that the sub-screen it opened has finished.
type childDoneMsg struct{}

func closeChild() tea.Msg {
	return childDoneMsg{}
}

// OpenTripMsg asks the root model to show a trip.
type OpenTripMsg struct {
	ID string
}

// Session is what every screen reads and writes through. Its context carries
// the signed-in user, and its repositories share one cache for the life of
// the program.
type Session struct {
	ctx      context.Context
	Repos    *trip.Repositories
	Cities   *catalog.Cities
	Importer *importer.Service
	Now      func() time.Time
}

func NewSession(ctx context.Context, repos *trip.Repositories, cities *catalog.Cities, imp *importer.Service) *Session {
	return &Session{
		ctx:      ctx,
		Repos:    repos,
		Cities:   cities,
		Importer: imp,
		Now:      time.Now,
	}
}

// DbCtx returns the session context with a standard timeout for store calls.
func (s *Session) DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, dbTimeout)
}
