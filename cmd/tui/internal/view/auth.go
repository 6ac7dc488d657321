package view

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stash/internal/identity"
)

type authMode string

const (
	authLogin    authMode = "login"
	authRegister authMode = "register"
)

type authFields struct {
	mode     authMode
	name     string
	email    string
	password string
}

// AuthModel is the login / registration screen shown while nobody is signed in.
type AuthModel struct {
	CommonModel
	identity *identity.Store

	fields *authFields
	form   *huh.Form
	busy   bool
	err    string
}

func NewAuthModel(store *identity.Store) AuthModel {
	m := AuthModel{
		identity: store,
		fields:   &authFields{mode: authLogin},
	}
	m.form = m.buildForm()

	return m
}

func (m AuthModel) Title() string { return "Welcome to Stash" }

func (m AuthModel) ShortHelp() string {
	if m.busy {
		return "Signing in..."
	}

	return "Enter: next | Shift+Tab: back | Ctrl+C: quit"
}

func (m AuthModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AuthModel) buildForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[authMode]().
				Title("Stash").
				Description("Your student budget, sorted.").
				Options(
					huh.NewOption("Log in", authLogin),
					huh.NewOption("Create an account", authRegister),
				).
				Value(&f.mode),
		),
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(required),
		).WithHideFunc(func() bool { return f.mode != authRegister }),
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&f.email).Validate(required),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.password).Validate(func(s string) error {
				if f.mode == authRegister && identity.PasswordLength(s) < identity.MinPasswordLength {
					return errShortPassword
				}

				return required(s)
			}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(authResultMsg); ok {
		m.busy = false

		if res.err != nil {
			m.err = DescribeError(res.err)
			m.fields.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return SessionMsg{Session: res.session} }
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	m.err = ""

	return m, m.submitCmd()
}

func (m AuthModel) View() string {
	var b strings.Builder

	b.WriteString(m.form.View())

	if m.busy {
		b.WriteString("\n" + faintStyle.Render("Checking your details..."))
	}

	if m.err != "" {
		b.WriteString("\n" + dangerStyle.Render(m.err))
	}

	return pageStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(m.Title()), "", b.String()))
}

type authResultMsg struct {
	session *identity.Session
	err     error
}

func (m AuthModel) submitCmd() tea.Cmd {
	f := *m.fields
	store := m.identity

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		var (
			session *identity.Session
			err     error
		)

		if f.mode == authRegister {
			session, err = store.Register(ctx, f.name, f.email, f.password)
		} else {
			session, err = store.Login(ctx, f.email, f.password)
		}

		return authResultMsg{session: session, err: err}
	}
}
