// internal/guard/guard.go

// Package guard enforces the two consent invariants of the outreach core:
// a contact on the do-not-contact list is never sent to, and an
// organization never exceeds its daily send cap. The cap check and the
// counter increment are a single atomic step (ReserveSend), never separate
// read and write operations.
package guard

import (
	"context"
	"strings"
	"time"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// SuppressionStore is the persistence capability the guard needs for the
// do-not-contact set. Add must be idempotent: inserting an address that is
// already listed is a no-op success.
type SuppressionStore interface {
	IsSuppressed(ctx context.Context, orgID, email string) (bool, error)
	Add(ctx context.Context, orgID, email, reason string) error
}

// DailyCounter tracks sent emails per organization per calendar day.
// Reserve performs the compare-and-increment as one atomic unit; Release
// undoes a reservation whose send did not go through.
type DailyCounter interface {
	Reserve(ctx context.Context, orgID string, day time.Time, cap int) (bool, error)
	Release(ctx context.Context, orgID string, day time.Time) error
	Count(ctx context.Context, orgID string, day time.Time) (int, error)
}

// Guard is the gatekeeper consulted before any draft becomes sendable.
type Guard struct {
	Suppressions SuppressionStore
	Counter      DailyCounter

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func New(suppressions SuppressionStore, counter DailyCounter) *Guard {
	return &Guard{Suppressions: suppressions, Counter: counter, Now: time.Now}
}

// NormalizeEmail canonicalizes an address for suppression matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthorizeSend checks, in order, the suppression list and the daily cap.
// A nil return means allow. It has no side effects; callers that go on to
// send must use ReserveSend so the cap check and increment stay atomic.
func (g *Guard) AuthorizeSend(ctx context.Context, contact *model.Contact, org *model.Organization) error {
	suppressed, err := g.Suppressions.IsSuppressed(ctx, org.ID, NormalizeEmail(contact.Email))
	if err != nil {
		return err
	}
	if suppressed {
		return appErrors.NewSuppressed(contact.Email)
	}

	count, err := g.Counter.Count(ctx, org.ID, g.now())
	if err != nil {
		return err
	}
	if count >= org.DailySendCap {
		return appErrors.NewRateLimited(org.ID, org.DailySendCap)
	}
	return nil
}

// IsSuppressed exposes the bare membership test for callers that need the
// flag without the cap check, e.g. flagging a draft informationally.
func (g *Guard) IsSuppressed(ctx context.Context, orgID, email string) (bool, error) {
	return g.Suppressions.IsSuppressed(ctx, orgID, NormalizeEmail(email))
}

// ReserveSend claims one slot of the organization's daily cap. Under
// concurrent attempts at the boundary, at most cap reservations succeed.
func (g *Guard) ReserveSend(ctx context.Context, org *model.Organization) error {
	ok, err := g.Counter.Reserve(ctx, org.ID, g.now(), org.DailySendCap)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewRateLimited(org.ID, org.DailySendCap)
	}
	return nil
}

// ReleaseSend returns a reserved slot after a failed send transition.
func (g *Guard) ReleaseSend(ctx context.Context, org *model.Organization) error {
	return g.Counter.Release(ctx, org.ID, g.now())
}

// AddSuppression puts an address on the permanent do-not-contact list.
// Adding an already-listed address succeeds without effect.
func (g *Guard) AddSuppression(ctx context.Context, orgID, email, reason string) error {
	return g.Suppressions.Add(ctx, orgID, NormalizeEmail(email), reason)
}

func (g *Guard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
