package split

import (
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShareStrategy uses the fixed amounts each participant declared.
type ShareStrategy struct{}

// Type returns the split type identifier.
func (s *ShareStrategy) Type() domain.SplitType {
	return domain.SplitShare
}

// Validate checks that every participant carries a non-negative amount and
// that the amounts sum to the expense total within tolerance.
func (s *ShareStrategy) Validate(totalAmount decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount.IsNegative() {
		return ErrNegativeAmount
	}

	totalShares := decimal.Zero
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingShareAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeAmount
		}
		totalShares = totalShares.Add(*p.Amount)
	}

	if totalShares.Sub(totalAmount).Abs().GreaterThan(tolerance) {
		return ErrInvalidShareTotal
	}
	return nil
}

// Calculate returns the declared amounts, rounded to two decimal places.
func (s *ShareStrategy) Calculate(totalAmount decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		outputs[i] = Output{UserID: p.UserID, AmountOwed: p.Amount.Round(2)}
	}
	return outputs, nil
}
