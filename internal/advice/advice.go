// Package advice asks a language model for budgeting advice on a snapshot of a user's budget.
package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
)

type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusWarning   Status = "warning"
	StatusCritical  Status = "critical"
)

func (s Status) Valid() bool {
	switch s {
	case StatusExcellent, StatusGood, StatusWarning, StatusCritical:
		return true
	default:
		return false
	}
}

type Reduction struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason"`
}

// Advice is replaced wholesale on every request and never persisted.
type Advice struct {
	Status              Status      `json:"status"`
	Headline            string      `json:"headline"`
	Summary             string      `json:"summary"`
	Tips                []string    `json:"tips"`
	SuggestedReductions []Reduction `json:"suggestedReductions"`
	IsDebtWarning       bool        `json:"isDebtWarning"`
	AchievabilityScore  float64     `json:"achievabilityScore"`
}

//go:generate mockgen -source=advice.go -destination=advisor_mock.go -package=advice
type Advisor interface {
	// Advise returns an error wrapping domain.ErrAdviceUnavailable when no usable advice could be produced.
	Advise(ctx context.Context, snapshot Snapshot) (*Advice, error)
}

// Snapshot is the read-only view of a budget sent along with an advice request.
type Snapshot struct {
	Currency         string              `json:"currency"`
	MonthlyAllowance float64             `json:"monthlyAllowance"`
	ExtraIncome      float64             `json:"extraIncome"`
	TotalSpent       float64             `json:"totalSpent"`
	Balance          float64             `json:"balance"`
	Overspent        bool                `json:"overspent"`
	CategoryTotals   map[string]float64  `json:"categoryTotals"`
	Goals            []budget.SavingGoal `json:"goals"`
}

func NewSnapshot(state *budget.State) Snapshot {
	sum := state.Summary()

	return Snapshot{
		Currency:         state.Profile.Currency,
		MonthlyAllowance: state.Profile.MonthlyAllowance,
		ExtraIncome:      state.ExtraIncome,
		TotalSpent:       sum.TotalSpent,
		Balance:          sum.Remaining,
		Overspent:        sum.IsInDebt,
		CategoryTotals:   state.CategoryTotals(),
		Goals:            state.Clone().Goals,
	}
}

// reply mirrors Advice with pointers so absent fields can be told apart from zero values.
type reply struct {
	Status              *string           `json:"status"`
	Headline            *string           `json:"headline"`
	Summary             *string           `json:"summary"`
	Tips                *[]string         `json:"tips"`
	SuggestedReductions *[]reductionReply `json:"suggestedReductions"`
	IsDebtWarning       *bool             `json:"isDebtWarning"`
	AchievabilityScore  *float64          `json:"achievabilityScore"`
}

type reductionReply struct {
	Category *string  `json:"category"`
	Amount   *float64 `json:"amount"`
	Reason   *string  `json:"reason"`
}

// parseAdvice decodes a model reply. Any missing field or unknown status rejects the whole reply.
func parseAdvice(text string) (*Advice, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode advice: %w", err)
	}

	var missing []string

	check := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}

	check(r.Status != nil, "status")
	check(r.Headline != nil, "headline")
	check(r.Summary != nil, "summary")
	check(r.Tips != nil, "tips")
	check(r.SuggestedReductions != nil, "suggestedReductions")
	check(r.IsDebtWarning != nil, "isDebtWarning")
	check(r.AchievabilityScore != nil, "achievabilityScore")

	if len(missing) > 0 {
		return nil, fmt.Errorf("advice missing fields: %s", strings.Join(missing, ", "))
	}

	status := Status(strings.ToLower(strings.TrimSpace(*r.Status)))
	if !status.Valid() {
		return nil, fmt.Errorf("unknown advice status %q", *r.Status)
	}

	reductions := make([]Reduction, 0, len(*r.SuggestedReductions))

	for i, rr := range *r.SuggestedReductions {
		if rr.Category == nil || rr.Amount == nil || rr.Reason == nil {
			return nil, fmt.Errorf("suggested reduction %d is incomplete", i)
		}

		reductions = append(reductions, Reduction{Category: *rr.Category, Amount: *rr.Amount, Reason: *rr.Reason})
	}

	return &Advice{
		Status:              status,
		Headline:            *r.Headline,
		Summary:             *r.Summary,
		Tips:                *r.Tips,
		SuggestedReductions: reductions,
		IsDebtWarning:       *r.IsDebtWarning,
		AchievabilityScore:  math.Max(0, math.Min(*r.AchievabilityScore, 100)),
	}, nil
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start == -1 || end <= start {
		return "", errors.New("no JSON object found in response")
	}

	return s[start : end+1], nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrAdviceUnavailable, err)
}
