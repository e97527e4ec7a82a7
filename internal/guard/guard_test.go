package guard_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/guard"
	"github.com/spsmiles/outreach-backend/internal/model"
)

func testOrg(cap int) *model.Organization {
	return &model.Organization{ID: "org-1", Name: "S&P Smiles Co.", DailySendCap: cap}
}

func testContact(email string) *model.Contact {
	return &model.Contact{ID: "contact-1", Name: "P. Ndlovu", Email: email}
}

func setupRedisCounter(t *testing.T) *guard.RedisCounter {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return guard.NewRedisCounter(client)
}

func TestAuthorizeSendSuppressedWinsOverCap(t *testing.T) {
	ctx := context.Background()
	g := guard.New(guard.NewMemorySuppressionStore(), guard.NewMemoryCounter())
	org := testOrg(0) // cap already exhausted

	require.NoError(t, g.AddSuppression(ctx, org.ID, "Head@School.za", "requested removal"))

	// Suppression is checked first, so the denial reason is suppressed
	// even though the cap would also deny.
	err := g.AuthorizeSend(ctx, testContact("head@school.za"), org)
	require.Error(t, err)
	assert.True(t, appErrors.IsSuppressed(err))
}

func TestAuthorizeSendRateLimited(t *testing.T) {
	ctx := context.Background()
	g := guard.New(guard.NewMemorySuppressionStore(), guard.NewMemoryCounter())
	org := testOrg(2)

	require.NoError(t, g.ReserveSend(ctx, org))
	require.NoError(t, g.ReserveSend(ctx, org))

	err := g.AuthorizeSend(ctx, testContact("head@school.za"), org)
	require.Error(t, err)
	assert.True(t, appErrors.IsRateLimited(err))
}

func TestAddSuppressionIdempotent(t *testing.T) {
	ctx := context.Background()
	store := guard.NewMemorySuppressionStore()
	g := guard.New(store, guard.NewMemoryCounter())

	require.NoError(t, g.AddSuppression(ctx, "org-1", "head@school.za", "asked to stop"))
	require.NoError(t, g.AddSuppression(ctx, "org-1", "HEAD@school.za ", "asked again"))

	assert.Equal(t, 1, store.Len(), "duplicate suppression must not create a second entry")

	suppressed, err := store.IsSuppressed(ctx, "org-1", "head@school.za")
	require.NoError(t, err)
	assert.True(t, suppressed)
}

func TestRedisCounterReserveRespectsCap(t *testing.T) {
	ctx := context.Background()
	counter := setupRedisCounter(t)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		ok, err := counter.Reserve(ctx, "org-1", day, 12)
		require.NoError(t, err)
		require.True(t, ok, "reservation %d should pass", i+1)
	}

	ok, err := counter.Reserve(ctx, "org-1", day, 12)
	require.NoError(t, err)
	assert.False(t, ok, "13th reservation must be denied")

	count, err := counter.Count(ctx, "org-1", day)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestRedisCounterConcurrentReservations(t *testing.T) {
	// Property from the guard contract: with cap=12 and more than 12
	// parallel attempts, exactly 12 pass.
	ctx := context.Background()
	counter := setupRedisCounter(t)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	const attempts = 40
	const cap = 12

	var granted int64
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			ok, err := counter.Reserve(ctx, "org-1", day, cap)
			if err != nil {
				t.Errorf("Reserve error: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(cap), granted)
}

func TestMemoryCounterConcurrentReservations(t *testing.T) {
	ctx := context.Background()
	counter := guard.NewMemoryCounter()
	day := time.Now()

	const attempts = 40
	const cap = 12

	var granted int64
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			ok, err := counter.Reserve(ctx, "org-1", day, cap)
			if err != nil {
				t.Errorf("Reserve error: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(cap), granted)
}

func TestCounterReleaseReturnsSlot(t *testing.T) {
	ctx := context.Background()
	counter := setupRedisCounter(t)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	ok, err := counter.Reserve(ctx, "org-1", day, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = counter.Reserve(ctx, "org-1", day, 1)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, counter.Release(ctx, "org-1", day))

	ok, err = counter.Reserve(ctx, "org-1", day, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCountersAreScopedPerDayAndOrg(t *testing.T) {
	ctx := context.Background()
	counter := guard.NewMemoryCounter()
	monday := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	tuesday := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)

	ok, err := counter.Reserve(ctx, "org-1", monday, 1)
	require.NoError(t, err)
	require.True(t, ok)

	// Next calendar day starts fresh.
	ok, err = counter.Reserve(ctx, "org-1", tuesday, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Other organizations are unaffected.
	ok, err = counter.Reserve(ctx, "org-2", monday, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
