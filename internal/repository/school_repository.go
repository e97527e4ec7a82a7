package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

// SchoolRepositoryInterface defines the methods the services use
type SchoolRepositoryInterface interface {
	Create(ctx context.Context, s *model.School) error
	GetByID(ctx context.Context, id string) (*model.School, error)
	List(ctx context.Context, province string) ([]model.School, error)
	Count(ctx context.Context) (int, error)
}

type SchoolRepository struct {
	DB *sql.DB
}

func (r *SchoolRepository) Create(ctx context.Context, s *model.School) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now()
	if s.Demographics == nil {
		s.Demographics = model.Demographics{}
	}
	query := `
        INSERT INTO schools (id, name, address, district, province, postal_code, phone, email, website, student_count, demographics, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Address, s.District, s.Province, s.PostalCode,
		s.Phone, s.Email, s.Website, s.StudentCount, s.Demographics, s.CreatedAt,
	)
	return err
}

func (r *SchoolRepository) GetByID(ctx context.Context, id string) (*model.School, error) {
	query := `
        SELECT id, name, address, district, province, postal_code, phone, email, website, student_count, demographics, created_at
        FROM schools WHERE id=$1
    `
	var s model.School
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Address, &s.District, &s.Province, &s.PostalCode,
		&s.Phone, &s.Email, &s.Website, &s.StudentCount, &s.Demographics, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("school", id)
		}
		return nil, err
	}
	return &s, nil
}

func (r *SchoolRepository) List(ctx context.Context, province string) ([]model.School, error) {
	query := `
        SELECT id, name, address, district, province, postal_code, phone, email, website, student_count, demographics, created_at
        FROM schools
    `
	args := []interface{}{}
	if province != "" {
		query += ` WHERE province=$1`
		args = append(args, province)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schools := []model.School{}
	for rows.Next() {
		var s model.School
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Address, &s.District, &s.Province, &s.PostalCode,
			&s.Phone, &s.Email, &s.Website, &s.StudentCount, &s.Demographics, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

func (r *SchoolRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM schools`).Scan(&count)
	return count, err
}

var _ SchoolRepositoryInterface = (*SchoolRepository)(nil)
