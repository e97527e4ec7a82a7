// internal/model/pricing_policy.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Adjustment operations. Additive adjustments move the price by a fixed cent
// amount; multiplicative ones scale it by a percentage.
const (
	AdjustmentAdd      = "add"
	AdjustmentMultiply = "multiply"
)

// PricingAdjustment is one step of a pricing policy. Steps are evaluated
// strictly in the order they are declared so a policy always reproduces the
// same price for the same school snapshot.
//
// An adjustment triggers either on a demographic attribute (Attribute set,
// optionally narrowed to a specific value via Equals) or on a student-count
// band (Attribute empty, MinStudents/MaxStudents set). Size-band steps are
// skipped when the student count is unknown.
type PricingAdjustment struct {
	Attribute   string `json:"attribute,omitempty"`
	Equals      string `json:"equals,omitempty"`
	Required    bool   `json:"required,omitempty"`
	MinStudents *int   `json:"min_students,omitempty"`
	MaxStudents *int   `json:"max_students,omitempty"`

	Op          string  `json:"op"`
	AmountCents int64   `json:"amount_cents,omitempty"`
	Percent     float64 `json:"percent,omitempty"`
}

// PricingPolicy is the declarative rule set a campaign snapshots at creation
// time. All money is in cents of the organization currency.
type PricingPolicy struct {
	BaseRateCents int64               `json:"base_rate_cents"`
	FloorCents    int64               `json:"floor_cents"`
	CeilingCents  int64               `json:"ceiling_cents"`
	Adjustments   []PricingAdjustment `json:"adjustments"`
}

func (p PricingPolicy) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PricingPolicy) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = PricingPolicy{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into PricingPolicy", src)
	}
}
