package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stash/internal/budget"
)

var quickContributions = map[string]float64{"p": 500, "P": 1000}

// GoalsModel lists saving goals and their progress.
type GoalsModel struct {
	CommonModel
	ctrl     *budget.Controller
	editor   *budget.GoalEditor
	cursor   int
	progress progress.Model
}

func NewGoalsModel(ctrl *budget.Controller) GoalsModel {
	return GoalsModel{
		ctrl:     ctrl,
		editor:   &budget.GoalEditor{},
		progress: newProgress(30),
	}
}

func (m GoalsModel) Title() string { return "Saving Goals" }

func (m GoalsModel) ShortHelp() string {
	return "↑/↓: select | n: new goal | e: edit | c: contribute | p: +500 | P: +1000"
}

func (m GoalsModel) Init() tea.Cmd {
	return nil
}

func (m GoalsModel) selected() (budget.SavingGoal, bool) {
	goals := m.ctrl.State().Goals
	if m.cursor < 0 || m.cursor >= len(goals) {
		return budget.SavingGoal{}, false
	}

	return goals[m.cursor], true
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BudgetChangedMsg:
		if n := len(m.ctrl.State().Goals); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.ctrl.State().Goals)-1 {
				m.cursor++
			}
		case "n":
			m.editor.Cancel()
			return m, openModal(NewGoalModal(m.ctrl, m.editor, nil))
		case "e":
			goal, ok := m.selected()
			if !ok {
				return m, nil
			}

			m.editor.Begin(goal.ID)

			return m, openModal(NewGoalModal(m.ctrl, m.editor, &goal))
		case "c":
			if goal, ok := m.selected(); ok {
				return m, openModal(NewContributionModal(m.ctrl, goal))
			}
		case "p", "P":
			if goal, ok := m.selected(); ok {
				amount := quickContributions[key]
				return m, contribute(m.ctrl, goal.ID, func() (float64, error) { return amount, nil })
			}
		}
	}

	return m, nil
}

func (m GoalsModel) View() string {
	state := m.ctrl.State()
	cur := state.Profile.Currency

	if len(state.Goals) == 0 {
		return faintStyle.Render("No saving goals yet. Press n to create one.")
	}

	cards := make([]string, 0, len(state.Goals))

	for i, g := range state.Goals {
		header := g.Title
		if i == m.cursor {
			header = titleStyle.Render("▸ " + header)
		}

		lines := []string{
			header,
			faintStyle.Render(fmt.Sprintf("%s · %d months", g.Type, g.DurationMonths)),
			fmt.Sprintf("%s of %s", FormatAmount(cur, g.CurrentAmount), FormatAmount(cur, g.TargetAmount)),
			progressBar(m.progress, g.ProgressPercent()),
		}

		if g.CurrentAmount >= g.TargetAmount {
			lines = append(lines, successStyle.Render("Goal reached!"))
		} else if need := g.MonthlyNeed(); need > 0 {
			lines = append(lines, fmt.Sprintf("Save %s/month", FormatAmount(cur, need)))
		}

		style := cardStyle
		if i == m.cursor {
			style = style.BorderForeground(accent)
		}

		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
