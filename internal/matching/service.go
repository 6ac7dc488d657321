package matching

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
)

// Rule assigns Category to expenses whose description contains Pattern, ignoring case.
type Rule struct {
	Pattern  string          `json:"pattern"`
	Category budget.Category `json:"category"`
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, userKey, description string) (budget.Category, error)
	CreateRule(ctx context.Context, userKey string, rule Rule) error
	ListRules(ctx context.Context, userKey string) ([]Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the best rule matching description, or "" if none matches.
func (s *Service) Suggest(ctx context.Context, userKey, description string) (budget.Category, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, userKey, description)
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, userKey, pattern string, category budget.Category) error {
	pattern = strings.TrimSpace(pattern)

	var v domain.Validator
	v.Check(pattern != "", "pattern", "required")
	v.Check(category.Valid(), "category", "unknown category")

	if err := v.Err(); err != nil {
		return err
	}

	return s.repo.CreateRule(ctx, userKey, Rule{Pattern: pattern, Category: category})
}

func (s *Service) Rules(ctx context.Context, userKey string) ([]Rule, error) {
	return s.repo.ListRules(ctx, userKey)
}
