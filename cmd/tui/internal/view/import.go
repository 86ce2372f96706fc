package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/globetrotter/internal/itinerary"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel loads an expense spreadsheet or bank export into one trip.
type ImportModel struct {
	CommonModel
	session *Session
	tripID  string

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model

	imported []trip.Expense
	status   string
	err      error
}

func NewImportModel(s *Session, tripID string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ImportModel{
		session:    s,
		tripID:     tripID,
		filePicker: fp,
		spinner:    sp,
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back | Enter: import another"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if m.state == importStateImporting {
				return m, nil
			}

			return m, closeChild
		case tea.KeyEnter:
			if m.state == importStateResult {
				m.state = importStateFilePick
				m.status = ""
				m.err = nil

				return m, nil
			}
		}

	case importResultMsg:
		m.state = importStateResult
		m.imported = msg.expenses
		m.err = msg.err

		switch {
		case msg.err != nil && len(msg.expenses) > 0:
			m.status = fmt.Sprintf("Imported %d expenses before failing.", len(msg.expenses))
		case msg.err != nil:
			m.status = ""
		default:
			m.status = fmt.Sprintf("Imported %d expenses (%s).",
				len(msg.expenses), FormatMoney(itinerary.ExpenseTotal(msg.expenses)))
		}

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	if didSelect, path := m.filePicker.DidSelectDisabledFile(msg); didSelect {
		m.err = fmt.Errorf("%s is not a CSV file", path)
		return m, cmd
	}

	return m, cmd
}

func (m ImportModel) View() string {
	var content string

	switch m.state {
	case importStateFilePick:
		content = "Pick a CSV export (expense sheet, card or account statement):\n\n" + m.filePicker.View()
		if m.err != nil {
			content += "\n" + errorStyle(m.err.Error())
		}
	case importStateImporting:
		content = m.spinner.View() + " " + m.status
	case importStateResult:
		if m.status != "" {
			content = m.status
		}

		if m.err != nil {
			content += "\n" + errorStyle(fmt.Sprintf("Error: %v", m.err))
		}

		content += "\n\n" + faint("Enter to import another file, Esc to return to the trip.")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// Messages

type importResultMsg struct {
	expenses []trip.Expense
	err      error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(m.session.ctx, importTimeout)
		defer cancel()

		expenses, err := m.session.Importer.Import(ctx, m.tripID, f)

		return importResultMsg{expenses: expenses, err: err}
	}
}
