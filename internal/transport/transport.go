// internal/transport/transport.go
package transport

import (
	"context"
	"fmt"
	"math/rand"
)

// Sender delivers a rendered email to a recipient address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MockSender simulates delivery with a configurable success rate.
// It stands in for a real provider integration in dev and test setups.
type MockSender struct {
	// SuccessRate is the probability a send succeeds, in [0, 1].
	// The zero value is treated as 0.9.
	SuccessRate float64
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	rate := m.SuccessRate
	if rate == 0 {
		rate = 0.9
	}
	if rand.Float64() < rate {
		return nil
	}
	return fmt.Errorf("mock delivery to %s failed", to)
}

var _ Sender = (*MockSender)(nil)
