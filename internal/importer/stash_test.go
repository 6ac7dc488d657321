package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/importer"
)

func TestStashParser_Parse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []budget.Entry
		wantErr string
	}

	tests := []testCase{
		{
			name: "ExpensesAndIncome",
			input: "date,category,description,amount\n" +
				"2025-03-14T09:30:00Z,Food,Waakye,25.5\n" +
				"2025-03-13,Income,Side gig,300\n" +
				"2025-03-12,,Trotro,4.005\n",
			want: []budget.Entry{
				{Amount: 25.5, Category: budget.CategoryFood, Description: "Waakye", Date: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)},
				{Amount: 300, Description: "Side gig", Date: time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), Income: true},
				{Amount: 4.01, Description: "Trotro", Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name:  "ReorderedColumnsAndBlankLines",
			input: "Amount,Description,Category,Date,Note\n\n12,Data bundle,Bills,2025-03-01,x\n",
			want: []budget.Entry{
				{Amount: 12, Category: budget.CategoryBills, Description: "Data bundle", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		{name: "HeaderOnly", input: "date,category,description,amount\n"},
		{name: "Empty", input: "", wantErr: "empty file"},
		{name: "MissingColumn", input: "date,description,amount\n", wantErr: `missing column "category"`},
		{name: "BadDate", input: "date,category,description,amount\n14/03/2025,Food,x,1\n", wantErr: "row 2: invalid date"},
		{name: "BadAmount", input: "date,category,description,amount\n2025-03-14,Food,x,ten\n", wantErr: "row 2: invalid amount"},
		{name: "UnknownCategory", input: "date,category,description,amount\n2025-03-14,Rides,x,1\n", wantErr: `row 2: unknown category "Rides"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewStashParser().Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
