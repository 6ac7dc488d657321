package budget

import (
	"math"

	"github.com/MrJamesThe3rd/stash/internal/money"
)

// CategoryTotal is the summed spending of one category.
type CategoryTotal struct {
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// Summary holds the figures derived from a State. It is recomputed on every read.
type Summary struct {
	TotalSpent        float64         `json:"totalSpent"`
	AvailableBudget   float64         `json:"availableBudget"`
	Remaining         float64         `json:"remaining"`
	IsInDebt          bool            `json:"isInDebt"`
	ProgressPercent   float64         `json:"progressPercent"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
	UnreadCount       int             `json:"unreadCount"`
	MonthlyGoalNeed   float64         `json:"monthlyGoalNeed"`
}

func (s *State) TotalSpent() float64 {
	var acc money.Accumulator
	for _, e := range s.Expenses {
		acc.Add(e.Amount)
	}

	return acc.Float64()
}

// AvailableBudget is the allowance plus declared extra income.
func (s *State) AvailableBudget() float64 {
	return money.Add(s.Profile.MonthlyAllowance, s.ExtraIncome)
}

func (s *State) Summary() Summary {
	total := s.TotalSpent()
	available := s.AvailableBudget()

	progress := 0.0
	if available > 0 {
		progress = clampPercent(total / available * 100)
	}

	var goalNeed money.Accumulator
	for _, g := range s.Goals {
		goalNeed.Add(g.MonthlyNeed())
	}

	unread := 0

	for _, n := range s.Notifications {
		if !n.Read {
			unread++
		}
	}

	return Summary{
		TotalSpent:        total,
		AvailableBudget:   available,
		Remaining:         money.Add(available, -total),
		IsInDebt:          total > available,
		ProgressPercent:   progress,
		CategoryBreakdown: s.CategoryBreakdown(),
		UnreadCount:       unread,
		MonthlyGoalNeed:   goalNeed.Float64(),
	}
}

// CategoryBreakdown sums spending per category, ordered by the first time each category was used.
func (s *State) CategoryBreakdown() []CategoryTotal {
	index := make(map[Category]int)
	sums := make([]money.Accumulator, 0, len(Categories))
	order := make([]Category, 0, len(Categories))

	for i := len(s.Expenses) - 1; i >= 0; i-- {
		e := s.Expenses[i]

		pos, ok := index[e.Category]
		if !ok {
			pos = len(order)
			index[e.Category] = pos
			order = append(order, e.Category)
			sums = append(sums, money.Accumulator{})
		}

		sums[pos].Add(e.Amount)
	}

	out := make([]CategoryTotal, len(order))
	for i, c := range order {
		out[i] = CategoryTotal{Category: c, Amount: sums[i].Float64()}
	}

	return out
}

// CategoryTotals is CategoryBreakdown as a map.
func (s *State) CategoryTotals() map[string]float64 {
	out := make(map[string]float64)
	for _, ct := range s.CategoryBreakdown() {
		out[string(ct.Category)] = ct.Amount
	}

	return out
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}

	return math.Max(0, math.Min(p, 100))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
