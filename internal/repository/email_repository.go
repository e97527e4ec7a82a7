package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// EmailRepositoryInterface defines the methods the orchestrator uses
type EmailRepositoryInterface interface {
	Create(ctx context.Context, e *model.Email) error
	GetByID(ctx context.Context, id string) (*model.Email, error)
	Update(ctx context.Context, e *model.Email) error
	ListByCampaign(ctx context.Context, campaignID string) ([]model.Email, error)
	GetInFlight(ctx context.Context, contactID, campaignID string) (*model.Email, error)
	ListAwaitingReplySince(ctx context.Context, before time.Time) ([]model.Email, error)
	StatusStats(ctx context.Context) (map[string]int, error)
	IntentStats(ctx context.Context) (map[string]int, error)
	Count(ctx context.Context) (int, error)
}

type EmailRepository struct {
	DB *sql.DB
}

const emailColumns = `id, organization_id, campaign_id, school_id, contact_id, subject, body, status, suppressed_flag, price_per_learner_cents, total_estimate_cents, reply_text, reply_intent, auto_response, delivery_failed, delivery_error, follow_up_of, follow_up_num, created_at, sent_at, replied_at, stale_at`

func (r *EmailRepository) Create(ctx context.Context, e *model.Email) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	query := `
        INSERT INTO emails (` + emailColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
    `
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.OrganizationID, e.CampaignID, e.SchoolID, e.ContactID,
		e.Subject, e.Body, e.Status, e.SuppressedFlag,
		e.PricePerLearnerCents, e.TotalEstimateCents,
		e.ReplyText, e.ReplyIntent, e.AutoResponse,
		e.DeliveryFailed, e.DeliveryError, e.FollowUpOf, e.FollowUpNum,
		e.CreatedAt, e.SentAt, e.RepliedAt, e.StaleAt,
	)
	// The partial unique index on (contact_id, campaign_id) rejects a
	// second in-flight email from another process.
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return appErrors.NewConflict(
			"an email for this contact and campaign is still in flight")
	}
	return err
}

func scanEmail(row interface{ Scan(...any) error }) (*model.Email, error) {
	var e model.Email
	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.CampaignID, &e.SchoolID, &e.ContactID,
		&e.Subject, &e.Body, &e.Status, &e.SuppressedFlag,
		&e.PricePerLearnerCents, &e.TotalEstimateCents,
		&e.ReplyText, &e.ReplyIntent, &e.AutoResponse,
		&e.DeliveryFailed, &e.DeliveryError, &e.FollowUpOf, &e.FollowUpNum,
		&e.CreatedAt, &e.SentAt, &e.RepliedAt, &e.StaleAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmailRepository) GetByID(ctx context.Context, id string) (*model.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE id=$1`
	e, err := scanEmail(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("email", id)
		}
		return nil, err
	}
	return e, nil
}

func (r *EmailRepository) Update(ctx context.Context, e *model.Email) error {
	query := `
        UPDATE emails
        SET subject=$1, body=$2, status=$3, suppressed_flag=$4,
            reply_text=$5, reply_intent=$6, auto_response=$7,
            delivery_failed=$8, delivery_error=$9,
            follow_up_of=$10, follow_up_num=$11,
            sent_at=$12, replied_at=$13, stale_at=$14
        WHERE id=$15
    `
	_, err := r.DB.ExecContext(ctx, query,
		e.Subject, e.Body, e.Status, e.SuppressedFlag,
		e.ReplyText, e.ReplyIntent, e.AutoResponse,
		e.DeliveryFailed, e.DeliveryError,
		e.FollowUpOf, e.FollowUpNum,
		e.SentAt, e.RepliedAt, e.StaleAt,
		e.ID,
	)
	return err
}

func (r *EmailRepository) ListByCampaign(ctx context.Context, campaignID string) ([]model.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE campaign_id=$1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *e)
	}
	return emails, rows.Err()
}

// GetInFlight returns the one email that still occupies the (contact,
// campaign) slot, or nil when the slot is free.
func (r *EmailRepository) GetInFlight(ctx context.Context, contactID, campaignID string) (*model.Email, error) {
	query := `
        SELECT ` + emailColumns + ` FROM emails
        WHERE contact_id=$1 AND campaign_id=$2
          AND (status IN ('draft', 'sent', 'awaiting_reply')
               OR (status='replied' AND reply_intent='needs_info'))
        LIMIT 1
    `
	e, err := scanEmail(r.DB.QueryRowContext(ctx, query, contactID, campaignID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// ListAwaitingReplySince returns emails still awaiting a reply that were
// sent before the cutoff, for the stale-detection scheduler.
func (r *EmailRepository) ListAwaitingReplySince(ctx context.Context, before time.Time) ([]model.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE status='awaiting_reply' AND sent_at < $1`
	rows, err := r.DB.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *e)
	}
	return emails, rows.Err()
}

func (r *EmailRepository) StatusStats(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT status, COUNT(*) FROM emails GROUP BY status`)
}

func (r *EmailRepository) IntentStats(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT reply_intent, COUNT(*) FROM emails WHERE reply_intent <> '' GROUP BY reply_intent`)
}

func (r *EmailRepository) groupCount(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		stats[key] = count
	}
	return stats, rows.Err()
}

func (r *EmailRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM emails`).Scan(&count)
	return count, err
}

var _ EmailRepositoryInterface = (*EmailRepository)(nil)
