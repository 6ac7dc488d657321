package cgd

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

var ErrUnknownLayout = errors.New("no matching CGD format: expected columns for conta, extrato or cartão")

// Parser reads Caixa Geral de Depósitos CSV exports. Debits become expenses
// and credits become income; the layout is detected from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]budget.Entry, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	l, cols, header, ok := detectLayout(rows)
	if !ok {
		return nil, ErrUnknownLayout
	}

	return readEntries(l, cols, rows[header+1:], header+1)
}

type columns map[string]int

func detectLayout(rows [][]string) (layout, columns, int, bool) {
	for idx, row := range rows {
		cols := make(columns, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for _, l := range layouts {
			if cols.has(l.requiredCols()) {
				return l, cols, idx, true
			}
		}
	}

	return layout{}, nil, 0, false
}

func (c columns) has(names []string) bool {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return false
		}
	}

	return true
}

// readEntries skips rows without a valid date or a non-zero amount (balances, footers).
func readEntries(l layout, cols columns, rows [][]string, offset int) ([]budget.Entry, error) {
	var entries []budget.Entry

	for i, row := range rows {
		line := offset + i + 1

		date, ok := parseDate(cell(row, cols[l.dateCol]))
		if !ok {
			continue
		}

		desc := cell(row, cols[l.descCol])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", line)
		}

		amount, income, ok := l.amount(cols, row)
		if !ok {
			continue
		}

		entries = append(entries, budget.Entry{
			Amount:      amount.InexactFloat64(),
			Description: desc,
			Date:        date,
			Income:      income,
		})
	}

	return entries, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// amount returns the absolute value of the row and whether it is a credit.
func (l layout) amount(cols columns, row []string) (decimal.Decimal, bool, bool) {
	if l.mode == amountSigned {
		d, ok := nonZero(cell(row, cols[l.amountCol]))
		if !ok {
			return decimal.Zero, false, false
		}

		return d.Abs(), d.IsPositive(), true
	}

	if d, ok := nonZero(cell(row, cols[l.debitCol])); ok {
		return d.Abs(), false, true
	}

	if d, ok := nonZero(cell(row, cols[l.creditCol])); ok {
		return d.Abs(), true, true
	}

	return decimal.Zero, false, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
