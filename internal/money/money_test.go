package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/stash/internal/money"
)

func TestSum_OrderIndependent(t *testing.T) {
	amounts := []float64{0.1, 0.2, 0.3, 1e6, 12.34, 0.01}
	reversed := make([]float64, len(amounts))

	for i, a := range amounts {
		reversed[len(amounts)-1-i] = a
	}

	assert.Equal(t, money.Sum(amounts...), money.Sum(reversed...))
	assert.Equal(t, 1000012.95, money.Sum(amounts...))
}

func TestSum_Empty(t *testing.T) {
	assert.Equal(t, 0.0, money.Sum())
}

func TestAdd(t *testing.T) {
	assert.Equal(t, 0.3, money.Add(0.1, 0.2))
}

func TestFormat(t *testing.T) {
	type testCase struct {
		name     string
		currency string
		amount   float64
		want     string
	}

	tests := []testCase{
		{name: "Grouping", currency: "GH₵", amount: 1500, want: "GH₵1,500"},
		{name: "Fraction", currency: "€", amount: 12.5, want: "€12.5"},
		{name: "Small", currency: "$", amount: 300, want: "$300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Format(tt.currency, tt.amount))
		})
	}
}
