package split

import (
	"errors"
	"fmt"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNoParticipants     = errors.New("at least one participant is required")
	ErrNegativeAmount     = errors.New("amounts cannot be negative")
	ErrMissingPercentage  = errors.New("percentage value required for all participants")
	ErrMissingShareAmount = errors.New("share amount required for all participants")
	ErrInvalidPercentages = errors.New("percentages must sum to 100")
	ErrInvalidShareTotal  = errors.New("share amounts must sum to the expense amount")
)

// tolerance allows for sub-cent drift in client-provided figures.
var tolerance = decimal.NewFromFloat(0.01)

// Input carries one participant's split parameters. Percentage is only
// consulted for percentage splits, Amount only for share splits.
type Input struct {
	UserID     string
	Percentage *decimal.Decimal
	Amount     *decimal.Decimal
}

// Output is the computed share for a single participant.
type Output struct {
	UserID     string
	AmountOwed decimal.Decimal
}

// Strategy computes per-participant shares for one split type. Every
// participant receives a share, including any payers among them; a payer's
// own share is settled against what they paid when balances are derived.
type Strategy interface {
	// Calculate computes the share owed by each participant. The shares sum
	// exactly to totalAmount after rounding to two decimal places.
	Calculate(totalAmount decimal.Decimal, participants []Input) ([]Output, error)

	// Type returns the split type this strategy implements.
	Type() domain.SplitType

	// Validate checks if the inputs are valid for this strategy.
	Validate(totalAmount decimal.Decimal, participants []Input) error
}

// ForType returns the strategy implementation for the given split type.
func ForType(splitType domain.SplitType) (Strategy, error) {
	switch splitType {
	case domain.SplitEqual:
		return &EqualStrategy{}, nil
	case domain.SplitPercentage:
		return &PercentageStrategy{}, nil
	case domain.SplitShare:
		return &ShareStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", splitType)
	}
}
