package view

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stash/internal/budget"
)

// Modal is a huh form shown over the current tab. submit runs once the form completes.
type Modal struct {
	title    string
	form     *huh.Form
	submit   func() tea.Cmd
	onCancel func()
}

func newModal(title string, submit func() tea.Cmd, groups ...*huh.Group) *Modal {
	return &Modal{
		title:  title,
		form:   huh.NewForm(groups...).WithWidth(50).WithShowHelp(false),
		submit: submit,
	}
}

func (m *Modal) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards msg to the form. done reports that the modal should close.
func (m *Modal) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.cancel()
		return true, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return true, m.submit()
	case huh.StateAborted:
		m.cancel()
		return true, nil
	}

	return false, cmd
}

func (m *Modal) cancel() {
	if m.onCancel != nil {
		m.onCancel()
	}
}

func (m *Modal) View() string {
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		"",
		m.form.View(),
		faintStyle.Render("Enter: next • Esc: cancel"),
	))
}

// mutation runs fn in a command and reports the outcome as a BudgetChangedMsg.
func mutation(notice string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return BudgetChangedMsg{Err: err}
		}

		return BudgetChangedMsg{Notice: notice}
	}
}

func categoryOptions() []huh.Option[budget.Category] {
	opts := make([]huh.Option[budget.Category], 0, len(budget.Categories))
	for _, c := range budget.Categories {
		opts = append(opts, huh.NewOption(string(c), c))
	}

	return opts
}

func NewExpenseModal(ctrl *budget.Controller) *Modal {
	f := &struct {
		amount      string
		category    budget.Category
		description string
	}{category: budget.CategoryFood}

	submit := func() tea.Cmd {
		return mutation("", func() error {
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}

			ctx, cancel := OpCtx()
			defer cancel()

			_, err = ctrl.AddExpense(ctx, amount, f.category, f.description)

			return err
		})
	}

	return newModal("Add expense", submit, huh.NewGroup(
		huh.NewInput().Title("Amount").Placeholder("25.00").Value(&f.amount).Validate(validAmount),
		huh.NewSelect[budget.Category]().Title("Category").Options(categoryOptions()...).Value(&f.category),
		huh.NewInput().Title("Description").Placeholder("Optional").Value(&f.description),
	))
}

func NewIncomeModal(ctrl *budget.Controller) *Modal {
	f := &struct {
		amount string
		source string
	}{}

	submit := func() tea.Cmd {
		return mutation("", func() error {
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}

			ctx, cancel := OpCtx()
			defer cancel()

			return ctrl.AddIncome(ctx, amount, f.source)
		})
	}

	return newModal("Add income", submit, huh.NewGroup(
		huh.NewInput().Title("Amount").Value(&f.amount).Validate(positiveAmount),
		huh.NewInput().Title("Source").Placeholder("Extra income").Value(&f.source),
	))
}

func NewAllowanceModal(ctrl *budget.Controller) *Modal {
	profile := ctrl.State().Profile

	f := &struct {
		allowance string
		currency  string
	}{
		allowance: strconv.FormatFloat(profile.MonthlyAllowance, 'f', -1, 64),
		currency:  profile.Currency,
	}

	submit := func() tea.Cmd {
		return mutation("Allowance updated.", func() error {
			allowance, err := parseAmount(f.allowance)
			if err != nil {
				return err
			}

			ctx, cancel := OpCtx()
			defer cancel()

			return ctrl.UpdateProfile(ctx, allowance, f.currency)
		})
	}

	return newModal("Monthly allowance", submit, huh.NewGroup(
		huh.NewInput().Title("Allowance").Value(&f.allowance).Validate(validAmount),
		huh.NewInput().Title("Currency symbol").Value(&f.currency).Validate(required),
	))
}

// NewGoalModal creates a goal, or edits goal when the editor is in editing mode.
func NewGoalModal(ctrl *budget.Controller, editor *budget.GoalEditor, goal *budget.SavingGoal) *Modal {
	f := &struct {
		title    string
		target   string
		typ      budget.GoalType
		duration string
	}{typ: budget.GoalShortTerm, duration: "1"}

	title := "New saving goal"
	if goal != nil {
		title = "Edit " + goal.Title
		f.title = goal.Title
		f.target = strconv.FormatFloat(goal.TargetAmount, 'f', -1, 64)
		f.typ = goal.Type
		f.duration = strconv.Itoa(goal.DurationMonths)
	}

	// The editor is not safe for concurrent use, so the submit runs on the update loop.
	submit := func() tea.Cmd {
		msg := submitGoal(ctrl, editor, f.title, f.target, f.typ, f.duration)
		return func() tea.Msg { return msg }
	}

	modal := newModal(title, submit, huh.NewGroup(
		huh.NewInput().Title("Title").Value(&f.title).Validate(required),
		huh.NewInput().Title("Target amount").Value(&f.target).Validate(positiveAmount),
		huh.NewSelect[budget.GoalType]().Title("Type").
			Options(huh.NewOption("Short-term", budget.GoalShortTerm), huh.NewOption("Long-term", budget.GoalLongTerm)).
			Value(&f.typ),
		huh.NewInput().Title("Duration (months)").Value(&f.duration).Validate(func(s string) error {
			if n, err := strconv.Atoi(s); err != nil || n < 1 {
				return fmt.Errorf("must be at least 1")
			}

			return nil
		}),
	))
	modal.onCancel = editor.Cancel

	return modal
}

func NewContributionModal(ctrl *budget.Controller, goal budget.SavingGoal) *Modal {
	f := &struct{ amount string }{}

	submit := func() tea.Cmd {
		return contribute(ctrl, goal.ID, func() (float64, error) { return parseAmount(f.amount) })
	}

	return newModal("Contribute to "+goal.Title, submit, huh.NewGroup(
		huh.NewInput().Title("Amount").Value(&f.amount).Validate(positiveAmount),
	))
}

func contribute(ctrl *budget.Controller, id string, amount func() (float64, error)) tea.Cmd {
	return func() tea.Msg {
		a, err := amount()
		if err != nil {
			return BudgetChangedMsg{Err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		goal, err := ctrl.ContributeToGoal(ctx, id, a)
		if err != nil {
			return BudgetChangedMsg{Err: err}
		}

		if goal == nil {
			return BudgetChangedMsg{Notice: "That goal no longer exists."}
		}

		return BudgetChangedMsg{Notice: fmt.Sprintf("Added %s to %s.", FormatAmount(ctrl.State().Profile.Currency, a), goal.Title)}
	}
}

func submitGoal(ctrl *budget.Controller, editor *budget.GoalEditor, title, target string, typ budget.GoalType, duration string) BudgetChangedMsg {
	amount, err := parseAmount(target)
	if err != nil {
		return BudgetChangedMsg{Err: err}
	}

	months, err := strconv.Atoi(duration)
	if err != nil {
		return BudgetChangedMsg{Err: fmt.Errorf("duration %q is not a whole number", duration)}
	}

	ctx, cancel := OpCtx()
	defer cancel()

	if _, err := editor.Submit(ctx, ctrl, budget.GoalParams{
		Title:          title,
		TargetAmount:   amount,
		Type:           typ,
		DurationMonths: months,
	}); err != nil {
		return BudgetChangedMsg{Err: err}
	}

	return BudgetChangedMsg{Notice: "Goal saved."}
}
