package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/budget/store"
	"github.com/MrJamesThe3rd/stash/internal/kv"
)

func sampleState() *budget.State {
	date := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	deadline := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	return &budget.State{
		Profile: budget.Profile{Name: "Ama", MonthlyAllowance: 2000, Currency: "GH₵"},
		Expenses: []budget.Expense{
			{ID: "e2", Amount: 12.5, Category: budget.CategoryTransport, Description: "Trotro", Date: date},
			{ID: "e1", Amount: 40, Category: budget.CategoryFood, Description: "Waakye", Date: date.Add(-time.Hour)},
		},
		Goals: []budget.SavingGoal{
			{ID: "g1", Title: "Trip", TargetAmount: 1000, CurrentAmount: 1500, Type: budget.GoalShortTerm, DurationMonths: 4},
			{ID: "g2", Title: "Laptop", TargetAmount: 25000, Type: budget.GoalLongTerm, DurationMonths: 12, Deadline: &deadline},
		},
		Streak: 3,
		Notifications: []budget.Notification{
			{ID: "n1", Title: "Logged!", Message: "Expense successfully added to your stash.", Type: budget.NotificationSuccess, Timestamp: date, Read: true},
		},
		ExtraIncome: 300,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())

	want := sampleState()
	require.NoError(t, s.Save(ctx, want, "ama@x.com"))

	got, err := s.Load(ctx, "ama@x.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_Load(t *testing.T) {
	type testCase struct {
		name   string
		stored map[string]string
		opts   []store.Option
		check  func(t *testing.T, got *budget.State)
	}

	defaults := func(currency string) func(t *testing.T, got *budget.State) {
		return func(t *testing.T, got *budget.State) {
			assert.Equal(t, budget.NewState(currency), got)
		}
	}

	tests := []testCase{
		{
			name:  "Missing",
			check: defaults(budget.DefaultCurrency),
		},
		{
			name:  "MissingWithConfiguredCurrency",
			opts:  []store.Option{store.WithDefaultCurrency("€")},
			check: defaults("€"),
		},
		{
			name:   "Corrupt",
			stored: map[string]string{store.Key("ama@x.com"): "{not json"},
			check:  defaults(budget.DefaultCurrency),
		},
		{
			name:   "WrongShape",
			stored: map[string]string{store.Key("ama@x.com"): `["a","b"]`},
			check:  defaults(budget.DefaultCurrency),
		},
		{
			name:   "MissingSlicesAndExtraIncome",
			stored: map[string]string{store.Key("ama@x.com"): `{"profile":{"name":"Ama","monthlyAllowance":500,"currency":"GH₵"},"streak":2}`},
			check: func(t *testing.T, got *budget.State) {
				assert.Equal(t, 500.0, got.Profile.MonthlyAllowance)
				assert.Equal(t, 2, got.Streak)
				assert.NotNil(t, got.Expenses)
				assert.NotNil(t, got.Goals)
				assert.NotNil(t, got.Notifications)
				assert.Zero(t, got.ExtraIncome)
			},
		},
		{
			name:   "NonNumericExtraIncome",
			stored: map[string]string{store.Key("ama@x.com"): `{"profile":{"currency":"GH₵"},"extraIncome":"lots"}`},
			check: func(t *testing.T, got *budget.State) {
				assert.Zero(t, got.ExtraIncome)
			},
		},
		{
			name:   "NullExtraIncome",
			stored: map[string]string{store.Key("ama@x.com"): `{"profile":{"currency":"GH₵"},"extraIncome":null}`},
			check: func(t *testing.T, got *budget.State) {
				assert.Zero(t, got.ExtraIncome)
			},
		},
		{
			name:   "LegacyIgnoredByDefault",
			stored: map[string]string{store.LegacyKey: `{"profile":{"name":"Old","monthlyAllowance":2000,"currency":"GH₵"}}`},
			check:  defaults(budget.DefaultCurrency),
		},
		{
			name:   "LegacyFallback",
			stored: map[string]string{store.LegacyKey: `{"profile":{"name":"Old","monthlyAllowance":2000,"currency":"GH₵"}}`},
			opts:   []store.Option{store.WithLegacyFallback()},
			check: func(t *testing.T, got *budget.State) {
				assert.Equal(t, 2000.0, got.Profile.MonthlyAllowance)
			},
		},
		{
			name: "KeyedDocumentWinsOverLegacy",
			stored: map[string]string{
				store.LegacyKey:        `{"profile":{"monthlyAllowance":2000}}`,
				store.Key("ama@x.com"): `{"profile":{"monthlyAllowance":700}}`,
			},
			opts: []store.Option{store.WithLegacyFallback()},
			check: func(t *testing.T, got *budget.State) {
				assert.Equal(t, 700.0, got.Profile.MonthlyAllowance)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := kv.NewMemory()

			for k, v := range tt.stored {
				require.NoError(t, mem.Set(ctx, k, v))
			}

			got, err := store.New(mem, tt.opts...).Load(ctx, "ama@x.com")
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestStore_LegacyNotMigrated(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	legacy := `{"profile":{"monthlyAllowance":2000}}`
	require.NoError(t, mem.Set(ctx, store.LegacyKey, legacy))

	s := store.New(mem, store.WithLegacyFallback())

	state, err := s.Load(ctx, "ama@x.com")
	require.NoError(t, err)

	state.Profile.MonthlyAllowance = 10
	require.NoError(t, s.Save(ctx, state, "ama@x.com"))

	got, err := mem.Get(ctx, store.LegacyKey)
	require.NoError(t, err)
	assert.Equal(t, legacy, got)
}

func TestStore_DocumentsAreNamespaced(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())

	ama := sampleState()
	require.NoError(t, s.Save(ctx, ama, "ama@x.com"))

	kofi, err := s.Load(ctx, "kofi@x.com")
	require.NoError(t, err)
	assert.Empty(t, kofi.Expenses)

	again, err := s.Load(ctx, " AMA@x.com ")
	require.NoError(t, err)
	assert.Equal(t, ama, again)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "stash_app_data:YW1hQHguY29t", store.Key("ama@x.com"))
	assert.Equal(t, store.Key("ama@x.com"), store.Key(" Ama@X.com"))
	assert.NotContains(t, store.Key("a+b/c?@x.com"), "/")
}

func TestStore_BackendErrors(t *testing.T) {
	backendErr := errors.New("connection refused")

	t.Run("Load", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := kv.NewMockStore(ctrl)
		m.EXPECT().Get(gomock.Any(), store.Key("ama@x.com")).Return("", backendErr)

		_, err := store.New(m).Load(context.Background(), "ama@x.com")
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("Save", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := kv.NewMockStore(ctrl)
		m.EXPECT().Set(gomock.Any(), store.Key("ama@x.com"), gomock.Any()).Return(backendErr)

		err := store.New(m).Save(context.Background(), budget.NewState(""), "ama@x.com")
		assert.ErrorIs(t, err, backendErr)
	})
}
