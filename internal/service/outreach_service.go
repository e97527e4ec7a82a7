// internal/service/outreach_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/generation"
	"github.com/spsmiles/outreach-backend/internal/guard"
	"github.com/spsmiles/outreach-backend/internal/intent"
	"github.com/spsmiles/outreach-backend/internal/lifecycle"
	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/pricing"
	"github.com/spsmiles/outreach-backend/internal/queue"
	"github.com/spsmiles/outreach-backend/internal/repository"
)

// OutreachService is the orchestrator: it composes the pricing engine, the
// consent guard, the generation adapter, the intent classifier and the
// state machine into the boundary operations.
type OutreachService struct {
	OrgRepo      repository.OrganizationRepositoryInterface
	SchoolRepo   repository.SchoolRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	EmailRepo    repository.EmailRepositoryInterface

	Guard      *guard.Guard
	Drafter    *generation.Drafter
	Classifier *intent.Classifier
	Queue      queue.Queue

	locks *lifecycle.KeyedLocks

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewOutreachService(
	orgs repository.OrganizationRepositoryInterface,
	schools repository.SchoolRepositoryInterface,
	contacts repository.ContactRepositoryInterface,
	campaigns repository.CampaignRepositoryInterface,
	emails repository.EmailRepositoryInterface,
	g *guard.Guard,
	drafter *generation.Drafter,
	classifier *intent.Classifier,
	q queue.Queue,
) *OutreachService {
	return &OutreachService{
		OrgRepo:      orgs,
		SchoolRepo:   schools,
		ContactRepo:  contacts,
		CampaignRepo: campaigns,
		EmailRepo:    emails,
		Guard:        g,
		Drafter:      drafter,
		Classifier:   classifier,
		Queue:        q,
		locks:        lifecycle.NewKeyedLocks(),
		Now:          time.Now,
	}
}

// GenerateDraft resolves the (school, contact, campaign) triple, computes
// and stamps the price, and produces a draft email. A suppressed contact
// still gets a draft for review, flagged so sending stays blocked. The
// draft always has usable text: generation failures fall back to the
// deterministic template inside the drafter.
func (s *OutreachService) GenerateDraft(ctx context.Context, schoolID, contactID, campaignID string) (*model.Email, error) {
	return s.generateDraft(ctx, schoolID, contactID, campaignID, "", 0)
}

// generateDraft holds the (contact, campaign) slot lock across the
// in-flight check and the insert so concurrent callers cannot both
// observe a free slot. The unique index on emails backs the same
// invariant across processes.
func (s *OutreachService) generateDraft(ctx context.Context, schoolID, contactID, campaignID, followUpOf string, followUpNum int) (*model.Email, error) {
	unlock := s.locks.Lock(contactID + "\x00" + campaignID)
	defer unlock()

	campaign, err := s.CampaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	org, err := s.OrgRepo.GetByID(ctx, campaign.OrganizationID)
	if err != nil {
		return nil, err
	}
	school, err := s.SchoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	contact, err := s.ContactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.SchoolID != school.ID {
		return nil, appErrors.NewConflict(
			fmt.Sprintf("contact %s does not belong to school %s", contactID, schoolID))
	}

	// One non-terminal email per (contact, campaign) pair at a time.
	inFlight, err := s.EmailRepo.GetInFlight(ctx, contactID, campaignID)
	if err != nil {
		return nil, err
	}
	if inFlight != nil {
		return nil, appErrors.NewConflict(
			fmt.Sprintf("email %s for contact %s in campaign %s is still in flight", inFlight.ID, contactID, campaignID))
	}

	quote, err := pricing.Compute(school, campaign.Policy)
	if err != nil {
		return nil, err
	}

	suppressed, err := s.Guard.IsSuppressed(ctx, org.ID, contact.Email)
	if err != nil {
		return nil, err
	}

	draft := s.Drafter.Draft(ctx, school, contact, campaign, quote)

	email := &model.Email{
		OrganizationID:       org.ID,
		CampaignID:           campaign.ID,
		SchoolID:             school.ID,
		ContactID:            contact.ID,
		Subject:              draft.Subject,
		Body:                 draft.Body,
		Status:               model.StatusDraft,
		SuppressedFlag:       suppressed,
		PricePerLearnerCents: quote.PricePerLearnerCents,
		TotalEstimateCents:   quote.TotalEstimateCents,
		FollowUpOf:           followUpOf,
		FollowUpNum:          followUpNum,
	}
	if err := s.EmailRepo.Create(ctx, email); err != nil {
		return nil, err
	}
	return email, nil
}

// RecordSend moves a draft to sent (and on to awaiting_reply). The
// suppression check and the atomic cap reservation both run before the
// transition; a reservation whose persist fails is released so the day's
// count stays accurate.
func (s *OutreachService) RecordSend(ctx context.Context, emailID string) (*model.Email, error) {
	unlock := s.locks.Lock(emailID)
	defer unlock()

	email, err := s.EmailRepo.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if email.Status != model.StatusDraft {
		return nil, appErrors.NewInvalidTransition(email.Status, model.StatusSent)
	}

	org, err := s.OrgRepo.GetByID(ctx, email.OrganizationID)
	if err != nil {
		return nil, err
	}
	contact, err := s.ContactRepo.GetByID(ctx, email.ContactID)
	if err != nil {
		return nil, err
	}

	suppressed, err := s.Guard.IsSuppressed(ctx, org.ID, contact.Email)
	if err != nil {
		return nil, err
	}
	if suppressed {
		return nil, appErrors.NewSuppressed(contact.Email)
	}

	if err := s.Guard.ReserveSend(ctx, org); err != nil {
		return nil, err
	}

	if err := lifecycle.MarkSent(email, s.now()); err != nil {
		if relErr := s.Guard.ReleaseSend(ctx, org); relErr != nil {
			log.Printf("[Outreach] failed to release send reservation for org %s: %v", org.ID, relErr)
		}
		return nil, err
	}
	if err := s.EmailRepo.Update(ctx, email); err != nil {
		if relErr := s.Guard.ReleaseSend(ctx, org); relErr != nil {
			log.Printf("[Outreach] failed to release send reservation for org %s: %v", org.ID, relErr)
		}
		return nil, err
	}

	if s.Queue != nil {
		if err := s.Queue.Publish(queue.TopicDeliveries, queue.DeliveryJob{EmailID: email.ID}); err != nil {
			// Delivery is a transport concern; the recorded send stands.
			log.Printf("[Outreach] failed to enqueue delivery for email %s: %v", email.ID, err)
		}
	}

	return email, nil
}

// ProcessReply classifies an inbound reply and applies the resulting
// transition. Classification always succeeds (fail-closed default), a
// suppressing intent feeds the do-not-contact list, and an auto-response
// draft is attached without ever blocking the transition.
func (s *OutreachService) ProcessReply(ctx context.Context, emailID, replyText string) (*model.Email, error) {
	unlock := s.locks.Lock(emailID)
	defer unlock()

	email, err := s.EmailRepo.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if email.Status != model.StatusAwaitingReply {
		return nil, appErrors.NewInvalidTransition(email.Status, model.StatusReplied)
	}

	label := s.Classifier.Classify(ctx, replyText)

	if err := lifecycle.MarkReplied(email, label, replyText, s.now()); err != nil {
		return nil, err
	}

	if intent.Suppressing(label) {
		contact, err := s.ContactRepo.GetByID(ctx, email.ContactID)
		if err != nil {
			return nil, err
		}
		reason := "declined outreach in reply"
		if label == model.IntentUnsubscribe {
			reason = "explicit opt-out in reply"
		}
		if err := s.Guard.AddSuppression(ctx, email.OrganizationID, contact.Email, reason); err != nil {
			return nil, err
		}
	}

	if school, err := s.SchoolRepo.GetByID(ctx, email.SchoolID); err == nil {
		email.AutoResponse = s.Drafter.Response(ctx, label, school)
	} else {
		log.Printf("[Outreach] skipping auto-response for email %s: %v", emailID, err)
	}

	if err := s.EmailRepo.Update(ctx, email); err != nil {
		return nil, err
	}
	return email, nil
}

// MarkStale records follow-up-window expiry for one email. The external
// scheduler owns the timing; this only validates and applies the move.
func (s *OutreachService) MarkStale(ctx context.Context, emailID string) (*model.Email, error) {
	unlock := s.locks.Lock(emailID)
	defer unlock()

	email, err := s.EmailRepo.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.MarkStale(email, s.now()); err != nil {
		return nil, err
	}
	if err := s.EmailRepo.Update(ctx, email); err != nil {
		return nil, err
	}
	return email, nil
}

// ScheduleFollowUp drafts the next email of a stale thread. The follow-up
// is a new entity with its own freshly computed pricing and its thread
// linkage stamped at creation; the stale email stays stale.
func (s *OutreachService) ScheduleFollowUp(ctx context.Context, emailID string) (*model.Email, error) {
	unlock := s.locks.Lock(emailID)
	defer unlock()

	original, err := s.EmailRepo.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if original.Status != model.StatusStale {
		return nil, appErrors.NewInvalidTransition(original.Status, model.StatusDraft)
	}

	campaign, err := s.CampaignRepo.GetByID(ctx, original.CampaignID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanFollowUp(original, s.maxFollowUps(ctx, campaign)) {
		return nil, appErrors.NewConflict(
			fmt.Sprintf("follow-up budget exhausted for email %s", emailID))
	}

	threadRoot := original.FollowUpOf
	if threadRoot == "" {
		threadRoot = original.ID
	}
	return s.generateDraft(ctx, original.SchoolID, original.ContactID, original.CampaignID,
		threadRoot, original.FollowUpNum+1)
}

// SweepStale finds emails whose follow-up window has elapsed and marks
// them stale. Meant to be driven by the surrounding scheduler on a timer.
// Returns the number of emails moved.
func (s *OutreachService) SweepStale(ctx context.Context) (int, error) {
	candidates, err := s.EmailRepo.ListAwaitingReplySince(ctx, s.now())
	if err != nil {
		return 0, err
	}

	moved := 0
	for i := range candidates {
		email := &candidates[i]
		window, err := s.followUpWindow(ctx, email)
		if err != nil {
			log.Printf("[Outreach] skipping stale check for email %s: %v", email.ID, err)
			continue
		}
		if email.SentAt == nil || s.now().Before(email.SentAt.Add(window)) {
			continue
		}
		if _, err := s.MarkStale(ctx, email.ID); err != nil {
			// Another caller may have transitioned it concurrently.
			if appErrors.IsInvalidTransition(err) {
				continue
			}
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func (s *OutreachService) followUpWindow(ctx context.Context, email *model.Email) (time.Duration, error) {
	campaign, err := s.CampaignRepo.GetByID(ctx, email.CampaignID)
	if err != nil {
		return 0, err
	}
	if campaign.FollowUpWindowHours > 0 {
		return time.Duration(campaign.FollowUpWindowHours) * time.Hour, nil
	}
	org, err := s.OrgRepo.GetByID(ctx, email.OrganizationID)
	if err != nil {
		return 0, err
	}
	return time.Duration(org.FollowUpWindowHours) * time.Hour, nil
}

// maxFollowUps resolves the campaign budget, falling back to the org
// default when the campaign leaves it unset.
func (s *OutreachService) maxFollowUps(ctx context.Context, campaign *model.Campaign) int {
	if campaign.MaxFollowUps > 0 {
		return campaign.MaxFollowUps
	}
	org, err := s.OrgRepo.GetByID(ctx, campaign.OrganizationID)
	if err != nil {
		return 0
	}
	return org.MaxFollowUps
}

func (s *OutreachService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
