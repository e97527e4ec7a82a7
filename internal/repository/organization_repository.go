package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// OrganizationRepositoryInterface defines the methods the services use
type OrganizationRepositoryInterface interface {
	Create(ctx context.Context, o *model.Organization) error
	GetByID(ctx context.Context, id string) (*model.Organization, error)
}

type OrganizationRepository struct {
	DB *sql.DB
}

func (r *OrganizationRepository) Create(ctx context.Context, o *model.Organization) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now()
	query := `
        INSERT INTO organizations (id, name, contact_email, currency, daily_send_cap, follow_up_window_hours, max_follow_ups, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query,
		o.ID, o.Name, o.ContactEmail, o.Currency, o.DailySendCap,
		o.FollowUpWindowHours, o.MaxFollowUps, o.CreatedAt,
	)
	return err
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	query := `
        SELECT id, name, contact_email, currency, daily_send_cap, follow_up_window_hours, max_follow_ups, created_at
        FROM organizations WHERE id=$1
    `
	var o model.Organization
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.ContactEmail, &o.Currency, &o.DailySendCap,
		&o.FollowUpWindowHours, &o.MaxFollowUps, &o.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("organization", id)
		}
		return nil, err
	}
	return &o, nil
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)
