// internal/pricing/pricing.go
package pricing

import (
	"fmt"
	"math"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// Quote is the result of a pricing computation. TotalEstimateCents is nil
// when the school's student count is unknown; a missing estimate is a
// distinct state from a zero estimate.
type Quote struct {
	PricePerLearnerCents int64  `json:"price_per_learner_cents"`
	TotalEstimateCents   *int64 `json:"total_estimate_cents,omitempty"`
}

// Compute derives a per-learner price and total estimate for a school under
// a campaign policy. It is a pure function: identical inputs always yield
// identical output. The result is clamped to the policy's [floor, ceiling]
// band after all adjustments have run.
func Compute(school *model.School, policy model.PricingPolicy) (Quote, error) {
	if policy.FloorCents > policy.CeilingCents {
		return Quote{}, appErrors.NewInvalidPolicy(
			fmt.Sprintf("floor %d is above ceiling %d", policy.FloorCents, policy.CeilingCents))
	}

	price := policy.BaseRateCents
	for _, adj := range policy.Adjustments {
		applies, err := adjustmentApplies(adj, school)
		if err != nil {
			return Quote{}, err
		}
		if !applies {
			continue
		}
		switch adj.Op {
		case model.AdjustmentAdd:
			price += adj.AmountCents
		case model.AdjustmentMultiply:
			price = scaleHalfUp(price, adj.Percent)
		default:
			return Quote{}, appErrors.NewInvalidPolicy(fmt.Sprintf("unknown adjustment op %q", adj.Op))
		}
	}

	if price < policy.FloorCents {
		price = policy.FloorCents
	}
	if price > policy.CeilingCents {
		price = policy.CeilingCents
	}

	quote := Quote{PricePerLearnerCents: price}
	if school.StudentCount != nil {
		total := price * int64(*school.StudentCount)
		quote.TotalEstimateCents = &total
	}
	return quote, nil
}

func adjustmentApplies(adj model.PricingAdjustment, school *model.School) (bool, error) {
	if adj.Attribute != "" {
		value, ok := school.Demographics[adj.Attribute]
		if !ok {
			if adj.Required {
				return false, appErrors.NewMissingRequiredFactor(adj.Attribute)
			}
			return false, nil
		}
		if adj.Equals != "" && value != adj.Equals {
			return false, nil
		}
		return true, nil
	}

	// Student-count band.
	if school.StudentCount == nil {
		return false, nil
	}
	n := *school.StudentCount
	if adj.MinStudents == nil && adj.MaxStudents == nil {
		return false, nil
	}
	if adj.MinStudents != nil && n < *adj.MinStudents {
		return false, nil
	}
	if adj.MaxStudents != nil && n > *adj.MaxStudents {
		return false, nil
	}
	return true, nil
}

// scaleHalfUp applies a percentage to a cent amount, rounding half away
// from zero so results land on the currency's smallest unit.
func scaleHalfUp(cents int64, percent float64) int64 {
	// Work in basis points to keep the arithmetic integral.
	bps := int64(math.Round(percent * 100))
	num := cents * (10000 + bps)
	if num >= 0 {
		return (num + 5000) / 10000
	}
	return (num - 5000) / 10000
}
