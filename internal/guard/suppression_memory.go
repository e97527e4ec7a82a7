// internal/guard/suppression_memory.go
package guard

import (
	"context"
	"sync"
	"time"

	"github.com/spsmiles/outreach-backend/internal/model"
)

// MemorySuppressionStore keeps the do-not-contact set in process memory.
// Entries are keyed by (organization, normalized email) and are never
// removed, matching the permanence of the persistent store.
type MemorySuppressionStore struct {
	mu      sync.RWMutex
	entries map[string]model.DoNotContact
}

func NewMemorySuppressionStore() *MemorySuppressionStore {
	return &MemorySuppressionStore{entries: make(map[string]model.DoNotContact)}
}

func suppressionKey(orgID, email string) string {
	return orgID + "\x00" + NormalizeEmail(email)
}

func (s *MemorySuppressionStore) IsSuppressed(_ context.Context, orgID, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[suppressionKey(orgID, email)]
	return ok, nil
}

func (s *MemorySuppressionStore) Add(_ context.Context, orgID, email, reason string) error {
	key := suppressionKey(orgID, email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return nil
	}
	s.entries[key] = model.DoNotContact{
		OrganizationID: orgID,
		Email:          NormalizeEmail(email),
		Reason:         reason,
		AddedAt:        time.Now(),
	}
	return nil
}

// Len reports the number of suppression entries, for tests and stats.
func (s *MemorySuppressionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ SuppressionStore = (*MemorySuppressionStore)(nil)
