package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/importer/cgd"
)

//go:generate mockgen -source=service.go -destination=suggester_mock.go -package=importer
type Suggester interface {
	Suggest(ctx context.Context, userKey, description string) (budget.Category, error)
}

type Service struct {
	parsers   map[Format]Parser
	suggester Suggester
}

// NewService builds an importer for every known format. suggester may be nil.
func NewService(suggester Suggester) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatStash: NewStashParser(),
			FormatCGD:   cgd.NewParser(),
		},
		suggester: suggester,
	}
}

// Parse reads r in the given format and fills blank expense categories from the user's rules.
func (s *Service) Parse(ctx context.Context, userKey string, format Format, r io.Reader) ([]budget.Entry, error) {
	p, ok := s.parsers[format]
	if !ok {
		return nil, domain.NewValidationError("format", fmt.Sprintf("unknown format %q", format))
	}

	entries, err := p.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s file: %w", format, domain.NewValidationError("file", err.Error()))
	}

	if s.suggester == nil {
		return entries, nil
	}

	for i := range entries {
		e := &entries[i]
		if e.Income || e.Category != "" {
			continue
		}

		category, err := s.suggester.Suggest(ctx, userKey, e.Description)
		if err != nil {
			slog.WarnContext(ctx, "category suggestion failed", "description", e.Description, "error", err)
			continue
		}

		e.Category = category
	}

	return entries, nil
}

// Import parses r and records the entries on the user's budget.
func (s *Service) Import(ctx context.Context, ctrl *budget.Controller, format Format, r io.Reader) (*budget.ImportResult, error) {
	entries, err := s.Parse(ctx, ctrl.UserKey(), format, r)
	if err != nil {
		return nil, err
	}

	res, err := ctrl.ImportExpenses(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("import entries: %w", err)
	}

	slog.InfoContext(ctx, "statement imported", "format", format, "expenses", res.Expenses, "duplicates", res.Duplicates)

	return res, nil
}
