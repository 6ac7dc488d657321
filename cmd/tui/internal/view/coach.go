package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/budget"
)

const adviceTimeout = 90 * time.Second

type adviceMsg struct {
	userKey string
	advice  *advice.Advice
}

// CoachModel asks the advisor about the current budget and shows its reply.
type CoachModel struct {
	CommonModel
	coach   *advice.Coach
	ctrl    *budget.Controller
	spinner spinner.Model

	thinking bool
	asked    bool
	advice   *advice.Advice
}

func NewCoachModel(coach *advice.Coach, ctrl *budget.Controller) CoachModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return CoachModel{
		coach:   coach,
		ctrl:    ctrl,
		spinner: s,
		advice:  coach.Latest(ctrl.UserKey()),
	}
}

func (m CoachModel) Title() string { return "Budget Coach" }

func (m CoachModel) ShortHelp() string {
	if m.thinking {
		return "thinking..."
	}

	return "enter/r: ask for advice"
}

func (m CoachModel) Init() tea.Cmd {
	return nil
}

func (m CoachModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceMsg:
		// Replies for another user, or arriving after this screen was rebuilt, are not ours.
		if !m.thinking || msg.userKey != m.ctrl.UserKey() {
			return m, nil
		}

		m.thinking = false
		m.asked = true
		m.advice = msg.advice

		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "r":
			if m.thinking {
				return m, nil
			}

			m.thinking = true

			return m, tea.Batch(m.spinner.Tick, m.askCmd())
		}
	}

	return m, nil
}

func (m CoachModel) askCmd() tea.Cmd {
	coach, ctrl := m.coach, m.ctrl
	userKey := ctrl.UserKey()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()

		return adviceMsg{userKey: userKey, advice: coach.Ask(ctx, userKey, ctrl.State())}
	}
}

func (m CoachModel) View() string {
	if m.thinking {
		return fmt.Sprintf("%s Looking at your budget...", m.spinner.View())
	}

	if m.advice == nil {
		if m.asked {
			return warningStyle.Render("The coach is unavailable right now. Try again in a moment.")
		}

		return faintStyle.Render("Press enter to get advice on this month's budget.")
	}

	return renderAdvice(m.advice, m.ctrl.State().Profile.Currency)
}

func statusStyle(s advice.Status) lipgloss.Style {
	switch s {
	case advice.StatusExcellent, advice.StatusGood:
		return successStyle
	case advice.StatusWarning:
		return warningStyle
	default:
		return dangerStyle
	}
}

func renderAdvice(a *advice.Advice, currency string) string {
	var b strings.Builder

	b.WriteString(statusStyle(a.Status).Bold(true).Render(strings.ToUpper(string(a.Status))))
	b.WriteString("  " + titleStyle.Render(a.Headline) + "\n\n")
	b.WriteString(a.Summary + "\n")

	if a.IsDebtWarning {
		b.WriteString("\n" + dangerStyle.Render("You are spending more than you have this month.") + "\n")
	}

	if len(a.Tips) > 0 {
		b.WriteString("\nTips\n")

		for _, tip := range a.Tips {
			b.WriteString("  • " + tip + "\n")
		}
	}

	if len(a.SuggestedReductions) > 0 {
		b.WriteString("\nWhere to cut back\n")

		for _, r := range a.SuggestedReductions {
			fmt.Fprintf(&b, "  • %s: %s (%s)\n", r.Category, FormatAmount(currency, r.Amount), r.Reason)
		}
	}

	fmt.Fprintf(&b, "\nGoal achievability: %.0f/100", a.AchievabilityScore)

	return b.String()
}
