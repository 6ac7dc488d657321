package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/export"
	"github.com/MrJamesThe3rd/stash/internal/identity"
	"github.com/MrJamesThe3rd/stash/internal/importer"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Deps are the services shared by every screen.
type Deps struct {
	Identity *identity.Store
	Budgets  *budget.Service
	Coach    *advice.Coach
	Import   *importer.Service
	Export   *export.Service
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SessionMsg reports a successful login or registration.
type SessionMsg struct {
	Session *identity.Session
}

// BudgetChangedMsg is sent after a mutation attempt. Notice is shown on success, Err on failure.
type BudgetChangedMsg struct {
	Notice string
	Err    error
}

// OpenModalMsg asks the root model to show a form over the current tab.
type OpenModalMsg struct {
	Modal *Modal
}

func openModal(m *Modal) tea.Cmd {
	return func() tea.Msg { return OpenModalMsg{Modal: m} }
}
