package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/encoding"
)

// Header is the column layout of a stash CSV file.
var Header = []string{"date", "category", "description", "amount"}

// IncomeCategory marks rows that add to extra income instead of recording an expense.
const IncomeCategory = "Income"

// StashParser reads the CSV written by the export package. Columns are matched
// by header name, so extra or reordered columns are tolerated.
type StashParser struct{}

func NewStashParser() *StashParser {
	return &StashParser{}
}

func (p *StashParser) Parse(r io.Reader) ([]budget.Entry, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var entries []budget.Entry

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		if blank(row) {
			continue
		}

		entry, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRow(row []string, cols map[string]int) (budget.Entry, error) {
	get := func(name string) string {
		if i := cols[name]; i < len(row) {
			return strings.TrimSpace(row[i])
		}

		return ""
	}

	date, err := parseDate(get("date"))
	if err != nil {
		return budget.Entry{}, err
	}

	amount, err := decimal.NewFromString(get("amount"))
	if err != nil {
		return budget.Entry{}, fmt.Errorf("invalid amount %q", get("amount"))
	}

	entry := budget.Entry{
		Amount:      amount.Round(2).InexactFloat64(),
		Description: get("description"),
		Date:        date,
	}

	category := get("category")
	if strings.EqualFold(category, IncomeCategory) {
		entry.Income = true
		return entry, nil
	}

	if category != "" {
		entry.Category = budget.Category(category)
		if !entry.Category.Valid() {
			return budget.Entry{}, fmt.Errorf("unknown category %q", category)
		}
	}

	return entry, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
