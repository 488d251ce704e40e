package split

import (
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EqualStrategy divides the expense evenly among all participants.
type EqualStrategy struct{}

// Type returns the split type identifier.
func (s *EqualStrategy) Type() domain.SplitType {
	return domain.SplitEqual
}

// Validate checks if the inputs are valid for an equal split.
func (s *EqualStrategy) Validate(totalAmount decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Calculate divides the total amount evenly among all participants.
// Any sub-cent remainder left after rounding lands on the first participant
// so the shares always sum exactly to the total.
func (s *EqualStrategy) Calculate(totalAmount decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(participants)))
	share := totalAmount.Div(n).Round(2)

	outputs := make([]Output, len(participants))
	distributed := decimal.Zero
	for i, p := range participants {
		outputs[i] = Output{UserID: p.UserID, AmountOwed: share}
		distributed = distributed.Add(share)
	}

	remainder := totalAmount.Sub(distributed)
	if !remainder.IsZero() {
		outputs[0].AmountOwed = outputs[0].AmountOwed.Add(remainder).Round(2)
	}

	return outputs, nil
}
