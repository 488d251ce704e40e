package split

import (
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentageStrategy divides the expense according to each participant's
// declared percentage.
type PercentageStrategy struct{}

// Type returns the split type identifier.
func (s *PercentageStrategy) Type() domain.SplitType {
	return domain.SplitPercentage
}

// Validate checks that every participant carries a percentage in [0,100]
// and that the percentages sum to 100 within tolerance.
func (s *PercentageStrategy) Validate(totalAmount decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount.IsNegative() {
		return ErrNegativeAmount
	}

	totalPct := decimal.Zero
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
			return ErrInvalidPercentages
		}
		totalPct = totalPct.Add(*p.Percentage)
	}

	if totalPct.Sub(hundred).Abs().GreaterThan(tolerance) {
		return ErrInvalidPercentages
	}
	return nil
}

// Calculate assigns amount × percentage / 100 to each participant. The last
// participant absorbs any rounding remainder so the shares sum to the total.
func (s *PercentageStrategy) Calculate(totalAmount decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(participants))
	distributed := decimal.Zero
	for i, p := range participants {
		amount := totalAmount.Mul(*p.Percentage).Div(hundred).Round(2)
		outputs[i] = Output{UserID: p.UserID, AmountOwed: amount}
		distributed = distributed.Add(amount)
	}

	remainder := totalAmount.Sub(distributed)
	if !remainder.IsZero() {
		last := len(outputs) - 1
		outputs[last].AmountOwed = outputs[last].AmountOwed.Add(remainder).Round(2)
	}

	return outputs, nil
}
