package budget

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/money"
)

// AddExpense logs an expense as the newest entry. A blank description becomes the category name.
// Going over the monthly allowance (extra income not counted) raises an alert instead of the usual confirmation.
func (c *Controller) AddExpense(ctx context.Context, amount float64, category Category, description string) (*Expense, error) {
	var v domain.Validator
	v.Check(finite(amount), "amount", "must be a number")
	v.Check(category.Valid(), "category", "unknown category")

	if err := v.Err(); err != nil {
		return nil, err
	}

	var created Expense

	err := c.mutate(ctx, func(s *State) (bool, error) {
		spentBefore := s.TotalSpent()

		created = Expense{
			ID:          uuid.NewString(),
			Amount:      amount,
			Category:    category,
			Description: blankTo(description, string(category)),
			Date:        c.timestamp(),
		}
		s.Expenses = append([]Expense{created}, s.Expenses...)

		if money.Add(spentBefore, amount) > s.Profile.MonthlyAllowance {
			s.prependNotification(c.notification(
				"Limit Reached!",
				"You just exceeded your monthly allowance. Take a breath and check the coach.",
				NotificationAlert,
			))
		} else {
			s.prependNotification(c.notification("Logged!", "Expense successfully added to your stash.", NotificationSuccess))
		}

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// DeleteExpense removes the expense with id. An unknown id is a no-op.
func (c *Controller) DeleteExpense(ctx context.Context, id string) error {
	return c.mutate(ctx, func(s *State) (bool, error) {
		i := slices.IndexFunc(s.Expenses, func(e Expense) bool { return e.ID == id })
		if i < 0 {
			return false, nil
		}

		s.Expenses = slices.Delete(s.Expenses, i, i+1)

		return true, nil
	})
}

// AddIncome raises the available budget by amount. A blank source is reported as "Extra income".
func (c *Controller) AddIncome(ctx context.Context, amount float64, source string) error {
	if !finite(amount) || amount <= 0 {
		return domain.NewValidationError("amount", "must be greater than zero")
	}

	source = blankTo(source, "Extra income")

	return c.mutate(ctx, func(s *State) (bool, error) {
		s.ExtraIncome = money.Add(s.ExtraIncome, amount)
		s.prependNotification(c.notification(
			"Income added",
			fmt.Sprintf("%s from %s added to your available spending.", money.Format(s.Profile.Currency, amount), source),
			NotificationSuccess,
		))

		return true, nil
	})
}

// GoalParams are the user-editable fields of a saving goal.
type GoalParams struct {
	Title          string
	TargetAmount   float64
	Type           GoalType
	DurationMonths int
	Deadline       *time.Time
}

func (p *GoalParams) validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Type == "" {
		p.Type = GoalShortTerm
	}

	var v domain.Validator
	v.Check(p.Title != "", "title", "required")
	v.Check(finite(p.TargetAmount) && p.TargetAmount > 0, "targetAmount", "must be greater than zero")
	v.Check(p.Type.Valid(), "type", "must be Short-term or Long-term")
	v.Check(p.DurationMonths >= 1, "durationMonths", "must be at least 1")

	return v.Err()
}

func (c *Controller) CreateGoal(ctx context.Context, params GoalParams) (*SavingGoal, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	goal := SavingGoal{
		ID:             uuid.NewString(),
		Title:          params.Title,
		TargetAmount:   params.TargetAmount,
		Type:           params.Type,
		DurationMonths: params.DurationMonths,
		Deadline:       params.Deadline,
	}

	err := c.mutate(ctx, func(s *State) (bool, error) {
		s.Goals = append(s.Goals, goal)
		s.prependNotification(c.notification(
			"Goal Unlocked",
			fmt.Sprintf("Let's go! You're now saving for %s.", goal.Title),
			NotificationSuccess,
		))

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

// EditGoal replaces the editable fields of goal id, keeping its saved amount.
// It returns nil, nil when no goal has that id.
func (c *Controller) EditGoal(ctx context.Context, id string, params GoalParams) (*SavingGoal, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var updated *SavingGoal

	err := c.mutate(ctx, func(s *State) (bool, error) {
		i := s.goalIndex(id)
		if i < 0 {
			return false, nil
		}

		g := &s.Goals[i]
		g.Title = params.Title
		g.TargetAmount = params.TargetAmount
		g.Type = params.Type
		g.DurationMonths = params.DurationMonths

		if params.Deadline != nil {
			g.Deadline = new(*params.Deadline)
		}

		updated = new(*g)

		s.prependNotification(c.notification(
			"Goal Updated",
			fmt.Sprintf(`"%s" has been updated.`, g.Title),
			NotificationSuccess,
		))

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ContributeToGoal adds amount to goal id. The saved amount may exceed the target.
// It returns nil, nil when no goal has that id.
func (c *Controller) ContributeToGoal(ctx context.Context, id string, amount float64) (*SavingGoal, error) {
	if !finite(amount) || amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}

	var updated *SavingGoal

	err := c.mutate(ctx, func(s *State) (bool, error) {
		i := s.goalIndex(id)
		if i < 0 {
			return false, nil
		}

		s.Goals[i].CurrentAmount = money.Add(s.Goals[i].CurrentAmount, amount)
		updated = new(s.Goals[i])

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *Controller) MarkAllNotificationsRead(ctx context.Context) error {
	return c.mutate(ctx, func(s *State) (bool, error) {
		changed := false

		for i := range s.Notifications {
			if !s.Notifications[i].Read {
				s.Notifications[i].Read = true
				changed = true
			}
		}

		return changed, nil
	})
}

// UpdateProfile sets the monthly allowance and, when not blank, the currency symbol.
func (c *Controller) UpdateProfile(ctx context.Context, allowance float64, currency string) error {
	if !finite(allowance) || allowance < 0 {
		return domain.NewValidationError("monthlyAllowance", "must be zero or more")
	}

	currency = strings.TrimSpace(currency)

	return c.mutate(ctx, func(s *State) (bool, error) {
		s.Profile.MonthlyAllowance = allowance
		if currency != "" {
			s.Profile.Currency = currency
		}

		return true, nil
	})
}

// Entry is one imported statement row: an expense, or income when Income is set.
type Entry struct {
	Amount      float64
	Category    Category
	Description string
	Date        time.Time
	Income      bool
}

type ImportResult struct {
	Expenses   int     `json:"expenses"`
	Income     float64 `json:"income"`
	Duplicates int     `json:"duplicates"`
}

// ImportExpenses applies imported rows in one write. Expenses already logged on the same day with the same
// amount and description are skipped. Expenses stay ordered newest first.
func (c *Controller) ImportExpenses(ctx context.Context, entries []Entry) (*ImportResult, error) {
	var v domain.Validator

	for i, e := range entries {
		field := fmt.Sprintf("entries[%d]", i)

		switch {
		case !finite(e.Amount):
			v.Add(field, "amount must be a number")
		case e.Amount <= 0:
			v.Add(field, "amount must be greater than zero")
		case !e.Income && e.Category != "" && !e.Category.Valid():
			v.Add(field, "unknown category")
		}
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	type dupKey struct {
		Date        string
		Amount      float64
		Description string
	}

	result := &ImportResult{}

	err := c.mutate(ctx, func(s *State) (bool, error) {
		seen := make(map[dupKey]bool, len(s.Expenses))
		for _, e := range s.Expenses {
			seen[dupKey{e.Date.Format(time.DateOnly), e.Amount, e.Description}] = true
		}

		var income money.Accumulator

		for _, e := range entries {
			if e.Income {
				income.Add(e.Amount)
				continue
			}

			category := e.Category
			if category == "" {
				category = CategoryOther
			}

			date := e.Date.UTC()
			if e.Date.IsZero() {
				date = c.timestamp()
			}

			exp := Expense{
				ID:          uuid.NewString(),
				Amount:      e.Amount,
				Category:    category,
				Description: blankTo(e.Description, string(category)),
				Date:        date,
			}

			k := dupKey{exp.Date.Format(time.DateOnly), exp.Amount, exp.Description}
			if seen[k] {
				result.Duplicates++
				continue
			}

			seen[k] = true
			s.Expenses = append(s.Expenses, exp)
			result.Expenses++
		}

		result.Income = income.Float64()
		if result.Expenses == 0 && result.Income == 0 {
			return false, nil
		}

		slices.SortStableFunc(s.Expenses, func(a, b Expense) int { return b.Date.Compare(a.Date) })
		s.ExtraIncome = money.Add(s.ExtraIncome, result.Income)

		s.prependNotification(c.notification(
			"Import complete",
			fmt.Sprintf("%d expenses and %s income imported.", result.Expenses, money.Format(s.Profile.Currency, result.Income)),
			NotificationSuccess,
		))

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
