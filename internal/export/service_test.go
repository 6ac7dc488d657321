package export_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/export"
	"github.com/MrJamesThe3rd/stash/internal/importer"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func testState() *budget.State {
	state := budget.NewState("GH₵")
	state.Profile.Name = "Ama"
	state.Profile.MonthlyAllowance = 2000
	state.ExtraIncome = 300
	state.Expenses = []budget.Expense{
		{ID: "3", Amount: 40, Category: budget.CategoryEntertainment, Description: "Cinema", Date: day(12)},
		{ID: "2", Amount: 25.5, Category: budget.CategoryFood, Description: "Waakye, large", Date: day(11)},
		{ID: "1", Amount: 1500, Category: budget.CategoryFood, Description: "Groceries", Date: day(1)},
	}

	return state
}

func TestService_Expenses(t *testing.T) {
	svc := export.NewService(func() time.Time { return fixedNow })

	type testCase struct {
		name   string
		filter export.Filter
		want   []string
	}

	tests := []testCase{
		{name: "NoFilterOldestFirst", want: []string{"1", "2", "3"}},
		{name: "StartDate", filter: export.Filter{StartDate: new(day(10))}, want: []string{"2", "3"}},
		{name: "EndDate", filter: export.Filter{EndDate: new(day(11))}, want: []string{"1", "2"}},
		{name: "Empty", filter: export.Filter{StartDate: new(day(20))}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Expenses(testState(), tt.filter)

			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}

			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestService_WriteCSV_RoundTrip(t *testing.T) {
	svc := export.NewService(func() time.Time { return fixedNow })
	state := testState()

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, svc.Expenses(state, export.Filter{})))

	assert.True(t, strings.HasPrefix(buf.String(), "date,category,description,amount\n2025-03-01T12:00:00Z,Food,Groceries,1500.00\n"))
	assert.Contains(t, buf.String(), `"Waakye, large",25.50`)

	entries, err := importer.NewStashParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, budget.Entry{Amount: 25.5, Category: budget.CategoryFood, Description: "Waakye, large", Date: day(11)}, entries[1])
}

func TestService_Summary(t *testing.T) {
	svc := export.NewService(func() time.Time { return fixedNow })
	state := testState()

	body := svc.Summary(state, svc.Expenses(state, export.Filter{}))

	for _, want := range []string{
		"Stash export for Ama (2025-03-14)",
		"* 2025-03-01 | Groceries | Food | -GH₵1,500",
		"* 2025-03-11 | Waakye, large | Food | -GH₵25.5",
		"  Food: GH₵1,525.5",
		"  Entertainment: GH₵40",
		"Total spent: GH₵1,565.5",
		"Available: GH₵2,300",
	} {
		assert.Contains(t, body, want)
	}

	assert.Contains(t, svc.Summary(state, nil), "No expenses recorded.")
}

func TestService_WriteZip(t *testing.T) {
	svc := export.NewService(func() time.Time { return fixedNow })

	var buf bytes.Buffer
	require.NoError(t, svc.WriteZip(&buf, testState(), export.Filter{}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "expenses.csv", zr.File[0].Name)
	assert.Equal(t, "summary.txt", zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)
	defer f.Close()

	summary, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Total spent: GH₵1,565.5")

	assert.Equal(t, "stash_export_20250314.zip", svc.Filename("zip"))
}
