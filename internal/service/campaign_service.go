// internal/service/campaign_service.go
package service

import (
	"context"
	"time"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	EmailRepo    repository.EmailRepositoryInterface
}

type CampaignDetails struct {
	Campaign model.Campaign `json:"campaign"`
	Stats    map[string]int `json:"stats"`
}

func (s *CampaignService) CreateCampaign(ctx context.Context, c *model.Campaign) (*model.Campaign, error) {
	if c.Policy.FloorCents > c.Policy.CeilingCents {
		return nil, appErrors.NewInvalidPolicy("floor is above ceiling")
	}
	if c.Status == "" {
		c.Status = model.CampaignActive
	}
	now := time.Now()
	c.StartedAt = &now
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	campaigns, total, err := s.CampaignRepo.ListCampaigns(ctx, offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return campaigns, pagination, nil
}

// GetCampaignDetails returns a campaign together with its per-status email
// counts.
func (s *CampaignService) GetCampaignDetails(ctx context.Context, campaignID string) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	emails, err := s.EmailRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	stats := map[string]int{
		"total":          0,
		"draft":          0,
		"awaiting_reply": 0,
		"replied":        0,
		"stale":          0,
	}
	for _, e := range emails {
		stats[e.Status]++
		stats["total"]++
	}

	return &CampaignDetails{Campaign: *campaign, Stats: stats}, nil
}

func (s *CampaignService) PauseCampaign(ctx context.Context, campaignID string) error {
	if _, err := s.CampaignRepo.GetByID(ctx, campaignID); err != nil {
		return err
	}
	return s.CampaignRepo.UpdateStatus(ctx, campaignID, model.CampaignPaused)
}
