package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// ContactRepositoryInterface defines the methods the services use
type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	ListBySchool(ctx context.Context, schoolID string) ([]model.Contact, error)
	Count(ctx context.Context) (int, error)
}

type ContactRepository struct {
	DB *sql.DB
}

func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO contacts (id, school_id, name, email, phone, position, is_primary, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.SchoolID, c.Name, c.Email, c.Phone, c.Position, c.IsPrimary, c.CreatedAt,
	)
	return err
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	query := `
        SELECT id, school_id, name, email, phone, position, is_primary, created_at
        FROM contacts WHERE id=$1
    `
	var c model.Contact
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.SchoolID, &c.Name, &c.Email, &c.Phone, &c.Position, &c.IsPrimary, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("contact", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) ListBySchool(ctx context.Context, schoolID string) ([]model.Contact, error) {
	query := `
        SELECT id, school_id, name, email, phone, position, is_primary, created_at
        FROM contacts WHERE school_id=$1
        ORDER BY is_primary DESC, name
    `
	rows, err := r.DB.QueryContext(ctx, query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.SchoolID, &c.Name, &c.Email, &c.Phone, &c.Position, &c.IsPrimary, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
