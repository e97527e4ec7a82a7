// internal/service/directory_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/repository"
)

// DirectoryService covers the school and contact book: the operator-facing
// CRUD around the outreach core.
type DirectoryService struct {
	SchoolRepo  repository.SchoolRepositoryInterface
	ContactRepo repository.ContactRepositoryInterface
}

func (s *DirectoryService) CreateSchool(ctx context.Context, school *model.School) (*model.School, error) {
	if strings.TrimSpace(school.Name) == "" {
		return nil, appErrors.NewValidation("school name is required")
	}
	if strings.TrimSpace(school.Province) == "" {
		return nil, appErrors.NewValidation("school province is required")
	}
	if school.StudentCount != nil && *school.StudentCount < 0 {
		return nil, appErrors.NewValidation("student count cannot be negative")
	}
	if err := s.SchoolRepo.Create(ctx, school); err != nil {
		return nil, err
	}
	return school, nil
}

func (s *DirectoryService) GetSchool(ctx context.Context, id string) (*model.School, error) {
	return s.SchoolRepo.GetByID(ctx, id)
}

func (s *DirectoryService) ListSchools(ctx context.Context, province string) ([]model.School, error) {
	return s.SchoolRepo.List(ctx, province)
}

func (s *DirectoryService) CreateContact(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return nil, appErrors.NewValidation("contact name is required")
	}
	if !strings.Contains(contact.Email, "@") {
		return nil, appErrors.NewValidation(fmt.Sprintf("contact email %q is not a valid address", contact.Email))
	}
	if contact.Position == "" {
		contact.Position = model.PositionOther
	}
	// School must exist before a contact can hang off it.
	if _, err := s.SchoolRepo.GetByID(ctx, contact.SchoolID); err != nil {
		return nil, err
	}
	if err := s.ContactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *DirectoryService) ListSchoolContacts(ctx context.Context, schoolID string) ([]model.Contact, error) {
	if _, err := s.SchoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, err
	}
	return s.ContactRepo.ListBySchool(ctx, schoolID)
}
