// internal/service/analytics_service.go
package service

import (
	"context"

	"github.com/spsmiles/outreach-backend/internal/repository"
)

// Dashboard is the aggregate snapshot served on the analytics endpoint.
type Dashboard struct {
	Totals          DashboardTotals `json:"totals"`
	StatusBreakdown map[string]int  `json:"status_breakdown"`
	IntentBreakdown map[string]int  `json:"intent_breakdown"`
	ReplyRate       float64         `json:"reply_rate"`
	InterestRate    float64         `json:"interest_rate"`
}

type DashboardTotals struct {
	Schools   int `json:"schools"`
	Contacts  int `json:"contacts"`
	Campaigns int `json:"campaigns"`
	Emails    int `json:"emails"`
}

type AnalyticsService struct {
	SchoolRepo   repository.SchoolRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	EmailRepo    repository.EmailRepositoryInterface
}

func (s *AnalyticsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	schools, err := s.SchoolRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.ContactRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.CampaignRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	emails, err := s.EmailRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.EmailRepo.StatusStats(ctx)
	if err != nil {
		return nil, err
	}
	intents, err := s.EmailRepo.IntentStats(ctx)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Totals: DashboardTotals{
			Schools:   schools,
			Contacts:  contacts,
			Campaigns: campaigns,
			Emails:    emails,
		},
		StatusBreakdown: statuses,
		IntentBreakdown: intents,
	}

	sentOut := statuses["sent"] + statuses["awaiting_reply"] + statuses["replied"] + statuses["stale"]
	if sentOut > 0 {
		dash.ReplyRate = float64(statuses["replied"]) / float64(sentOut)
	}
	replied := statuses["replied"]
	if replied > 0 {
		dash.InterestRate = float64(intents["interested"]) / float64(replied)
	}
	return dash, nil
}
