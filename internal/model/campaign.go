// internal/model/campaign.go
package model

import "time"

// Campaign statuses
const (
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
)

// Campaign is a named outreach initiative. The pricing policy and the
// fallback template are snapshotted here; once any email references the
// campaign, a policy change must spawn a new campaign so prices already
// stamped never drift.
type Campaign struct {
	ID                  string        `db:"id" json:"id"`
	OrganizationID      string        `db:"organization_id" json:"organization_id"`
	Name                string        `db:"name" json:"name"`
	Description         string        `db:"description" json:"description,omitempty"`
	Status              string        `db:"status" json:"status"`
	Policy              PricingPolicy `db:"pricing_policy" json:"pricing_policy"`
	FallbackTemplateID  string        `db:"fallback_template_id" json:"fallback_template_id"`
	FollowUpWindowHours int           `db:"follow_up_window_hours" json:"follow_up_window_hours"`
	MaxFollowUps        int           `db:"max_follow_ups" json:"max_follow_ups"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	StartedAt           *time.Time    `db:"started_at" json:"started_at,omitempty"`
	CompletedAt         *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
}
