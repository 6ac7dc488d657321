package view

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/stash/internal/budget"
)

// NotificationsModel lists notifications newest first.
type NotificationsModel struct {
	CommonModel
	ctrl *budget.Controller
}

func NewNotificationsModel(ctrl *budget.Controller) NotificationsModel {
	return NotificationsModel{ctrl: ctrl}
}

func (m NotificationsModel) Title() string { return "Notifications" }

func (m NotificationsModel) ShortHelp() string {
	return "opening this tab marks everything as read"
}

// Init marks every notification read.
func (m NotificationsModel) Init() tea.Cmd {
	if m.ctrl.Summary().UnreadCount == 0 {
		return nil
	}

	ctrl := m.ctrl

	return mutation("", func() error {
		ctx, cancel := OpCtx()
		defer cancel()

		return ctrl.MarkAllNotificationsRead(ctx)
	})
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width, m.Height = msg.Width, msg.Height
	}

	return m, nil
}

func (m NotificationsModel) View() string {
	notes := m.ctrl.State().Notifications
	if len(notes) == 0 {
		return faintStyle.Render("Nothing here yet.")
	}

	var b strings.Builder

	for _, n := range notes {
		title := n.Title
		switch n.Type {
		case budget.NotificationAlert:
			title = dangerStyle.Render(title)
		case budget.NotificationSuccess:
			title = successStyle.Render(title)
		default:
			title = warningStyle.Render(title)
		}

		b.WriteString(title + "  " + faintStyle.Render(n.Timestamp.Local().Format("Jan 2 15:04")) + "\n")
		b.WriteString("  " + n.Message + "\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
