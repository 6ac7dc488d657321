// Package budget holds a user's budget document and the controller that mutates it.
package budget

import (
	"slices"
	"time"
)

// DefaultCurrency is used when neither the document nor the configuration names one.
const DefaultCurrency = "GH₵"

// Category classifies an expense.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryStudy         Category = "Study"
	CategorySocial        Category = "Social"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryStudy,
	CategorySocial,
	CategoryEntertainment,
	CategoryBills,
	CategoryOther,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// GoalType is the saving horizon of a goal.
type GoalType string

const (
	GoalShortTerm GoalType = "Short-term"
	GoalLongTerm  GoalType = "Long-term"
)

func (t GoalType) Valid() bool {
	return t == GoalShortTerm || t == GoalLongTerm
}

// NotificationType drives how a notification is rendered.
type NotificationType string

const (
	NotificationReminder NotificationType = "reminder"
	NotificationAlert    NotificationType = "alert"
	NotificationSuccess  NotificationType = "success"
)

type Profile struct {
	Name             string  `json:"name"`
	MonthlyAllowance float64 `json:"monthlyAllowance"`
	Currency         string  `json:"currency"`
}

// Expense is immutable once logged.
type Expense struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

type SavingGoal struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	TargetAmount   float64    `json:"targetAmount"`
	CurrentAmount  float64    `json:"currentAmount"`
	Type           GoalType   `json:"type"`
	DurationMonths int        `json:"durationMonths"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// ProgressPercent is the displayed progress, clamped to [0, 100]. CurrentAmount itself may exceed the target.
func (g SavingGoal) ProgressPercent() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}

	return clampPercent(g.CurrentAmount / g.TargetAmount * 100)
}

// MonthlyNeed is the amount to set aside each month to reach the target in DurationMonths.
func (g SavingGoal) MonthlyNeed() float64 {
	if g.DurationMonths <= 0 {
		return 0
	}

	return g.TargetAmount / float64(g.DurationMonths)
}

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

// State is the persisted budget document of one user.
// Expenses and Notifications are kept newest first.
type State struct {
	Profile       Profile        `json:"profile"`
	Expenses      []Expense      `json:"expenses"`
	Goals         []SavingGoal   `json:"goals"`
	Streak        int            `json:"streak"`
	Notifications []Notification `json:"notifications"`
	ExtraIncome   float64        `json:"extraIncome"`
}

// NewState returns the default document: nothing logged, zero allowance.
func NewState(currency string) *State {
	if currency == "" {
		currency = DefaultCurrency
	}

	return &State{
		Profile:       Profile{Currency: currency},
		Expenses:      []Expense{},
		Goals:         []SavingGoal{},
		Notifications: []Notification{},
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Expenses = slices.Clone(s.Expenses)
	c.Notifications = slices.Clone(s.Notifications)
	c.Goals = make([]SavingGoal, len(s.Goals))

	for i, g := range s.Goals {
		if g.Deadline != nil {
			g.Deadline = new(*g.Deadline)
		}

		c.Goals[i] = g
	}

	c.normalize("")

	return &c
}

// Normalize fills what older or hand-edited documents may lack.
func (s *State) Normalize(currency string) {
	s.normalize(currency)
}

func (s *State) normalize(currency string) {
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}

	if s.Goals == nil {
		s.Goals = []SavingGoal{}
	}

	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}

	if !finite(s.ExtraIncome) {
		s.ExtraIncome = 0
	}

	if s.Profile.Currency == "" && currency != "" {
		s.Profile.Currency = currency
	}
}

func (s *State) goalIndex(id string) int {
	return slices.IndexFunc(s.Goals, func(g SavingGoal) bool { return g.ID == id })
}

func (s *State) prependNotification(n Notification) {
	s.Notifications = append([]Notification{n}, s.Notifications...)
}
