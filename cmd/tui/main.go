package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/stash/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/stash/internal/budget/store"
	"github.com/MrJamesThe3rd/stash/internal/config"
	"github.com/MrJamesThe3rd/stash/internal/export"
	"github.com/MrJamesThe3rd/stash/internal/identity"
	"github.com/MrJamesThe3rd/stash/internal/importer"
	"github.com/MrJamesThe3rd/stash/internal/logging"
	"github.com/MrJamesThe3rd/stash/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/stash/internal/matching/store"
	"github.com/MrJamesThe3rd/stash/internal/storage"
)

const defaultLogFile = "stash.log"

type budgetOpenedMsg struct {
	ctrl *budget.Controller
	err  error
}

type loggedOutMsg struct{}

type model struct {
	deps view.Deps

	width  int
	height int

	auth view.AuthModel

	ctrl  *budget.Controller
	tab   view.Tab
	tabs  []view.View
	sub   view.View
	modal *view.Modal

	notice    string
	noticeErr bool
}

func newModel(deps view.Deps, ctrl *budget.Controller) model {
	m := model{deps: deps, auth: view.NewAuthModel(deps.Identity)}
	if ctrl != nil {
		m.enter(ctrl)
	}

	return m
}

// enter switches to the tabbed screens for ctrl's user.
func (m *model) enter(ctrl *budget.Controller) {
	m.ctrl = ctrl
	m.tab = view.TabDashboard
	m.sub = nil
	m.modal = nil
	m.tabs = []view.View{
		view.NewDashboardModel(ctrl),
		view.NewGoalsModel(ctrl),
		view.NewCoachModel(m.deps.Coach, ctrl),
		view.NewNotificationsModel(ctrl),
	}

	if m.width > 0 {
		m.broadcast(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
}

func (m model) Init() tea.Cmd {
	if m.ctrl == nil {
		return m.auth.Init()
	}

	return nil
}

// broadcast delivers msg to every tab and the open sub-screen.
func (m *model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.tabs)+1)

	for i, t := range m.tabs {
		next, cmd := t.Update(msg)
		m.tabs[i] = next.(view.View)
		cmds = append(cmds, cmd)
	}

	if m.sub != nil {
		next, cmd := m.sub.Update(msg)
		m.sub = next.(view.View)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}

	if m.ctrl == nil {
		return m.updateAuth(msg)
	}

	switch msg := msg.(type) {
	case loggedOutMsg:
		m.ctrl = nil
		m.tabs = nil
		m.sub = nil
		m.modal = nil
		m.notice = ""
		m.auth = view.NewAuthModel(m.deps.Identity)

		return m, m.auth.Init()

	case view.OpenModalMsg:
		m.modal = msg.Modal
		return m, m.modal.Init()

	case view.BackMsg:
		m.sub = nil
		return m, nil

	case view.BudgetChangedMsg:
		m.setNotice(msg)
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	var cmds []tea.Cmd

	if m.modal != nil {
		done, cmd := m.modal.Update(msg)
		if done {
			m.modal = nil
		}

		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.broadcast(msg))

	return m, tea.Batch(cmds...)
}

func (m model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case view.SessionMsg:
		return m, m.openBudgetCmd(msg.Session)

	case budgetOpenedMsg:
		if msg.err != nil {
			slog.Error("failed to open budget", "error", msg.err)
			m.notice, m.noticeErr = "Could not load your budget. See the log for details.", true

			return m, nil
		}

		m.notice = ""
		m.enter(msg.ctrl)

		return m, nil
	}

	next, cmd := m.auth.Update(msg)
	m.auth = next.(view.AuthModel)

	return m, cmd
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		done, cmd := m.modal.Update(msg)
		if done {
			m.modal = nil
		}

		return m, cmd
	}

	if m.sub != nil {
		next, cmd := m.sub.Update(msg)
		m.sub = next.(view.View)

		return m, cmd
	}

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4":
		return m, m.switchTab(view.Tab(key[0] - '1'))
	case "tab":
		return m, m.switchTab((m.tab + 1) % view.Tab(len(m.tabs)))
	case "shift+tab":
		return m, m.switchTab((m.tab + view.Tab(len(m.tabs)) - 1) % view.Tab(len(m.tabs)))
	case "I":
		return m, m.openSub(view.NewImportModel(m.deps.Import, m.ctrl))
	case "X":
		return m, m.openSub(view.NewExportModel(m.deps.Export, m.ctrl))
	case "L":
		return m, m.logoutCmd()
	}

	next, cmd := m.tabs[m.tab].Update(msg)
	m.tabs[m.tab] = next.(view.View)

	return m, cmd
}

func (m *model) switchTab(t view.Tab) tea.Cmd {
	if t == m.tab {
		return nil
	}

	m.tab = t
	m.notice = ""

	return m.tabs[t].Init()
}

func (m *model) openSub(v view.View) tea.Cmd {
	if m.width > 0 {
		next, _ := v.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		v = next.(view.View)
	}

	m.sub = v

	return v.Init()
}

func (m *model) setNotice(msg view.BudgetChangedMsg) {
	switch {
	case msg.Err != nil:
		slog.Warn("budget change failed", "error", msg.Err)
		m.notice, m.noticeErr = view.DescribeError(msg.Err), true
	case msg.Notice != "":
		m.notice, m.noticeErr = msg.Notice, false
	}
}

func (m model) openBudgetCmd(session *identity.Session) tea.Cmd {
	budgets := m.deps.Budgets

	return func() tea.Msg {
		ctx, cancel := view.OpCtx()
		defer cancel()

		ctrl, err := budgets.Open(ctx, session)

		return budgetOpenedMsg{ctrl: ctrl, err: err}
	}
}

func (m model) logoutCmd() tea.Cmd {
	deps, userKey := m.deps, m.ctrl.UserKey()

	return func() tea.Msg {
		ctx, cancel := view.OpCtx()
		defer cancel()

		if err := deps.Identity.Logout(ctx); err != nil {
			slog.Warn("failed to clear session", "error", err)
		}

		deps.Budgets.Release(userKey)
		deps.Coach.Discard(userKey)

		return loggedOutMsg{}
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m model) View() string {
	if m.ctrl == nil {
		if m.notice != "" {
			return lipgloss.JoinVertical(lipgloss.Left, m.auth.View(), errStyle.Render(m.notice))
		}

		return m.auth.View()
	}

	active := m.tabs[m.tab]
	if m.sub != nil {
		active = m.sub
	}

	content := active.View()
	if m.modal != nil {
		content = m.modal.View()
	}

	status := ""
	if m.notice != "" {
		status = okStyle.Render(m.notice)
		if m.noticeErr {
			status = errStyle.Render(m.notice)
		}
	}

	help := active.ShortHelp() + " | 1-4/tab: switch | I: import | X: export | L: log out | q: quit"
	if m.sub != nil {
		help = active.ShortHelp()
	}

	state := m.ctrl.State()

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("Stash · %s", state.Profile.Name)),
		view.RenderTabBar(m.tab, m.ctrl.Summary().UnreadCount),
		"",
		headerStyle.Render(active.Title()),
		"",
		content,
		"",
		status,
		helpStyle.Render(help),
	))
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Validate(false); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}

	_, closeLog, err := logging.Setup(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: logFile})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStore()

	hasher, err := identity.NewHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	budgetOpts := []budgetStore.Option{budgetStore.WithDefaultCurrency(cfg.App.DefaultCurrency)}
	if cfg.Storage.LegacyFallback {
		budgetOpts = append(budgetOpts, budgetStore.WithLegacyFallback())
	}

	advisor := advice.NewClient(advice.ClientConfig{
		APIKey:    cfg.Advice.APIKey,
		Model:     cfg.Advice.Model,
		MaxTokens: cfg.Advice.MaxTokens,
		Timeout:   cfg.Advice.Timeout,
	})
	if !advisor.Enabled() {
		slog.Warn("ANTHROPIC_API_KEY not set; the coach will not give advice")
	}

	matchingService := matching.NewService(matchingStore.New(store))

	deps := view.Deps{
		Identity: identity.NewStore(store, hasher),
		Budgets:  budget.NewService(budgetStore.New(store, budgetOpts...)),
		Coach:    advice.NewCoach(advisor),
		Import:   importer.NewService(matchingService),
		Export:   export.NewService(time.Now),
	}

	var ctrl *budget.Controller

	if session := deps.Identity.GetSession(ctx); session != nil {
		ctrl, err = deps.Budgets.Open(ctx, session)
		if err != nil {
			slog.Error("failed to restore session", "email", session.Email, "error", err)
		}
	}

	p := tea.NewProgram(newModel(deps, ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
