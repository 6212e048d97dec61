package negotiation

import (
	"context"

	"github.com/shopspring/decimal"
)

// ScoreInput carries one item's pricing context for the advisory estimate.
type ScoreInput struct {
	ProductName  string
	InvoicePrice decimal.Decimal
	TargetPrice  decimal.Decimal
	OfferedPrice decimal.Decimal
}

// AcceptanceScorer estimates how likely the prospect is to accept an offer
// priced above the win-floor. The estimate guides the supplier; it never
// gates submission.
type AcceptanceScorer interface {
	EstimateAcceptance(ctx context.Context, input ScoreInput) (float64, error)
}

type heuristicScorer struct{}

// NewHeuristicScorer returns the default pricing-gap scorer.
func NewHeuristicScorer() AcceptanceScorer {
	return heuristicScorer{}
}

// EstimateAcceptance maps the offer's overage above target onto a probability.
// At or below target the acceptance is near certain; the estimate decays as
// the offer approaches and passes the prospect's current invoice price.
func (heuristicScorer) EstimateAcceptance(ctx context.Context, input ScoreInput) (float64, error) {
	if input.OfferedPrice.LessThanOrEqual(input.TargetPrice) {
		return 0.95, nil
	}

	span := input.InvoicePrice.Sub(input.TargetPrice)
	if !span.IsPositive() {
		// Target at or above invoice: any overage competes directly with the
		// prospect's current supplier.
		return 0.2, nil
	}

	overage := input.OfferedPrice.Sub(input.TargetPrice)
	ratio, _ := overage.Div(span).Float64()
	probability := 0.95 - 0.75*ratio
	if probability < 0.05 {
		probability = 0.05
	}
	return probability, nil
}
