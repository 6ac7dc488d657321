package view

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent    = lipgloss.Color("205")
	success   = lipgloss.Color("46")
	danger    = lipgloss.Color("196")
	warning   = lipgloss.Color("214")
	muted     = lipgloss.Color("240")
	pageStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(success)
	dangerStyle  = lipgloss.NewStyle().Foreground(danger)
	warningStyle = lipgloss.NewStyle().Foreground(warning)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

// Tab is one of the main screens reachable from the tab bar.
type Tab int

const (
	TabDashboard Tab = iota
	TabGoals
	TabCoach
	TabNotifications
)

var tabNames = []string{"Dashboard", "Goals", "Coach", "Notifications"}

func (t Tab) String() string {
	if int(t) < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}

	return tabNames[t]
}

// Tabs lists every tab in display order.
func Tabs() []Tab {
	return []Tab{TabDashboard, TabGoals, TabCoach, TabNotifications}
}

// RenderTabBar renders the tab names with their number keys; unread > 0 adds a badge to Notifications.
func RenderTabBar(active Tab, unread int) string {
	activeStyle := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent)

	parts := make([]string, 0, len(tabNames))

	for _, t := range Tabs() {
		label := t.String()
		if t == active {
			label = activeStyle.Render(label)
		}

		if t == TabNotifications && unread > 0 {
			label += warningStyle.Render(" •" + strconv.Itoa(unread))
		}

		parts = append(parts, faintStyle.Render(strconv.Itoa(int(t)+1)+" ")+label)
	}

	return strings.Join(parts, faintStyle.Render("  │  "))
}

func newProgress(width int) progress.Model {
	return progress.New(progress.WithDefaultGradient(), progress.WithWidth(width))
}

// progressBar renders pct (0-100) as a bar; values over 100 render full.
func progressBar(p progress.Model, pct float64) string {
	return p.ViewAs(min(max(pct, 0), 100) / 100)
}
