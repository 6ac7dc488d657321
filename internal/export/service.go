package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/importer"
	"github.com/MrJamesThe3rd/stash/internal/money"
)

// Filter limits an export to expenses dated within [StartDate, EndDate]. Nil bounds are open.
type Filter struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

func (f Filter) match(t time.Time) bool {
	if f.StartDate != nil && t.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && t.After(*f.EndDate) {
		return false
	}

	return true
}

// Service renders a budget's expenses as CSV, a plain-text summary or a zip holding both.
type Service struct {
	now func() time.Time
}

func NewService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{now: now}
}

// Expenses returns the expenses matching f, oldest first.
func (s *Service) Expenses(state *budget.State, f Filter) []budget.Expense {
	out := make([]budget.Expense, 0, len(state.Expenses))

	for _, e := range state.Expenses {
		if f.match(e.Date) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b budget.Expense) int { return a.Date.Compare(b.Date) })

	return out
}

// WriteCSV writes expenses in the layout the stash importer reads back.
func (s *Service) WriteCSV(w io.Writer, expenses []budget.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(importer.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range expenses {
		row := []string{
			e.Date.UTC().Format(time.RFC3339),
			string(e.Category),
			e.Description,
			decimal.NewFromFloat(e.Amount).StringFixed(2),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders one line per expense followed by per-category and overall totals.
func (s *Service) Summary(state *budget.State, expenses []budget.Expense) string {
	currency := state.Profile.Currency

	var (
		sb    strings.Builder
		total money.Accumulator
	)

	fmt.Fprintf(&sb, "Stash export for %s (%s)\n\n", state.Profile.Name, s.now().Format(time.DateOnly))

	if len(expenses) == 0 {
		sb.WriteString("No expenses recorded.\n")
	}

	byCategory := make(map[budget.Category]*money.Accumulator)

	for _, e := range expenses {
		fmt.Fprintf(&sb, "* %s | %s | %s | -%s\n",
			e.Date.Format(time.DateOnly), e.Description, e.Category, money.Format(currency, e.Amount))

		total.Add(e.Amount)

		acc, ok := byCategory[e.Category]
		if !ok {
			acc = &money.Accumulator{}
			byCategory[e.Category] = acc
		}

		acc.Add(e.Amount)
	}

	if len(byCategory) > 0 {
		sb.WriteString("\nBy category:\n")

		for _, c := range budget.Categories {
			if acc, ok := byCategory[c]; ok {
				fmt.Fprintf(&sb, "  %s: %s\n", c, money.Format(currency, acc.Float64()))
			}
		}
	}

	fmt.Fprintf(&sb, "\nTotal spent: %s\n", money.Format(currency, total.Float64()))
	fmt.Fprintf(&sb, "Available: %s\n", money.Format(currency, state.AvailableBudget()))

	return sb.String()
}

// WriteZip writes expenses.csv and summary.txt for the filtered expenses into a zip archive.
func (s *Service) WriteZip(w io.Writer, state *budget.State, f Filter) error {
	expenses := s.Expenses(state, f)
	modified := s.now()

	zw := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{name: "expenses.csv", write: func(w io.Writer) error { return s.WriteCSV(w, expenses) }},
		{name: "summary.txt", write: func(w io.Writer) error {
			_, err := io.WriteString(w, s.Summary(state, expenses))
			return err
		}},
	}

	for _, file := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: file.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("create %s: %w", file.name, err)
		}

		if err := file.write(fw); err != nil {
			return fmt.Errorf("write %s: %w", file.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}

	return nil
}

// Filename is the suggested download name for an export with the given extension.
func (s *Service) Filename(ext string) string {
	return fmt.Sprintf("stash_export_%s.%s", s.now().Format("20060102"), ext)
}
