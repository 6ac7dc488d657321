package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stash/internal/budget"
)

// DashboardModel shows the month's figures and the expense table.
type DashboardModel struct {
	CommonModel
	ctrl *budget.Controller

	table    table.Model
	progress progress.Model
	ids      []string
}

func NewDashboardModel(ctrl *budget.Controller) DashboardModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Category", Width: 13},
			{Title: "Description", Width: 28},
			{Title: "Amount", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := DashboardModel{ctrl: ctrl, table: t, progress: newProgress(40)}
	m.refresh()

	return m
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "e: add expense | i: add income | a: allowance | d: delete expense | I: import | X: export"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m *DashboardModel) refresh() {
	state := m.ctrl.State()

	rows := make([]table.Row, 0, len(state.Expenses))
	m.ids = make([]string, 0, len(state.Expenses))

	for _, e := range state.Expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			string(e.Category),
			e.Description,
			FormatAmount(state.Profile.Currency, e.Amount),
		})
		m.ids = append(m.ids, e.ID)
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BudgetChangedMsg:
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-24, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, openModal(NewExpenseModal(m.ctrl))
		case "i":
			return m, openModal(NewIncomeModal(m.ctrl))
		case "a":
			return m, openModal(NewAllowanceModal(m.ctrl))
		case "d", "delete":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.ids) {
		return nil
	}

	id := m.ids[idx]
	ctrl := m.ctrl

	return mutation("Expense deleted.", func() error {
		ctx, cancel := OpCtx()
		defer cancel()

		return ctrl.DeleteExpense(ctx, id)
	})
}

func (m DashboardModel) View() string {
	state := m.ctrl.State()
	sum := state.Summary()
	cur := state.Profile.Currency

	greeting := titleStyle.Render(fmt.Sprintf("Hi %s", state.Profile.Name))

	remaining := successStyle.Render(FormatAmount(cur, sum.Remaining))
	if sum.IsInDebt {
		remaining = dangerStyle.Render(FormatAmount(cur, sum.Remaining) + "  over budget")
	}

	figures := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Allowance   %s", FormatAmount(cur, state.Profile.MonthlyAllowance)),
		fmt.Sprintf("Extra       %s", FormatAmount(cur, state.ExtraIncome)),
		fmt.Sprintf("Spent       %s", FormatAmount(cur, sum.TotalSpent)),
		fmt.Sprintf("Remaining   %s", remaining),
		"",
		progressBar(m.progress, sum.ProgressPercent),
	))

	parts := []string{greeting, "", lipgloss.JoinHorizontal(lipgloss.Top, figures, "  ", m.breakdownView(sum, cur))}

	if state.Profile.MonthlyAllowance == 0 {
		parts = append(parts, warningStyle.Render("No allowance set yet. Press a to set your monthly allowance."))
	}

	if len(state.Expenses) == 0 {
		parts = append(parts, "", faintStyle.Render("No expenses yet. Press e to log one."))
	} else {
		parts = append(parts, "", m.table.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m DashboardModel) breakdownView(sum budget.Summary, currency string) string {
	if len(sum.CategoryBreakdown) == 0 {
		return ""
	}

	lines := []string{"By category"}
	for _, c := range sum.CategoryBreakdown {
		lines = append(lines, fmt.Sprintf("%-14s %s", c.Category, FormatAmount(currency, c.Amount)))
	}

	if sum.MonthlyGoalNeed > 0 {
		lines = append(lines, "", fmt.Sprintf("Goals need %s/month", FormatAmount(currency, sum.MonthlyGoalNeed)))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}
