package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/spsmiles/outreach-backend/internal/guard"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// SuppressionRepository persists the do-not-contact set. It satisfies the
// guard's SuppressionStore so the consent check and the storage share one
// definition of membership.
type SuppressionRepository struct {
	DB *sql.DB
}

func (r *SuppressionRepository) IsSuppressed(ctx context.Context, orgID, email string) (bool, error) {
	query := `SELECT 1 FROM do_not_contact WHERE organization_id=$1 AND email=$2 LIMIT 1`
	var tmp int
	err := r.DB.QueryRowContext(ctx, query, orgID, guard.NormalizeEmail(email)).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Add is idempotent: the unique (organization_id, email) index plus ON
// CONFLICT DO NOTHING makes a duplicate insert a no-op success.
func (r *SuppressionRepository) Add(ctx context.Context, orgID, email, reason string) error {
	query := `
        INSERT INTO do_not_contact (id, organization_id, email, reason, added_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (organization_id, email) DO NOTHING
    `
	_, err := r.DB.ExecContext(ctx, query,
		uuid.NewString(), orgID, guard.NormalizeEmail(email), reason, time.Now(),
	)
	return err
}

func (r *SuppressionRepository) List(ctx context.Context, orgID string) ([]model.DoNotContact, error) {
	query := `
        SELECT id, organization_id, email, reason, added_at
        FROM do_not_contact WHERE organization_id=$1
        ORDER BY added_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.DoNotContact{}
	for rows.Next() {
		var d model.DoNotContact
		if err := rows.Scan(&d.ID, &d.OrganizationID, &d.Email, &d.Reason, &d.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, d)
	}
	return entries, rows.Err()
}

var _ guard.SuppressionStore = (*SuppressionRepository)(nil)
