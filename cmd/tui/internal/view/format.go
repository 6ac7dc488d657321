package view

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/money"
)

const opTimeout = 5 * time.Second

func FormatAmount(currency string, amount float64) string {
	return money.Format(currency, amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Local().Format(time.DateOnly)
}

// OpCtx returns a context with a standard timeout for storage operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// parseAmount reads a user-typed amount, accepting grouping commas and a currency-free number.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("amount is required")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	return f, nil
}

func validAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func positiveAmount(s string) error {
	f, err := parseAmount(s)
	if err != nil {
		return err
	}

	if f <= 0 {
		return errors.New("must be greater than zero")
	}

	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}

	return nil
}

// DescribeError turns domain errors into the one-line messages shown in the status bar.
func DescribeError(err error) string {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		parts := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			parts = append(parts, fe.Field+" "+fe.Message)
		}

		return "Please check: " + strings.Join(parts, ", ")
	case errors.Is(err, domain.ErrNotFound):
		return "No account found for that email."
	case errors.Is(err, domain.ErrAuthentication):
		return "Incorrect password."
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "An account with this email already exists."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

var errShortPassword = errors.New("must be at least 6 characters")
