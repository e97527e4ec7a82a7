// internal/model/organization.go
package model

import "time"

// Organization is the sending party (e.g. a student-led screening team).
// It carries the global outreach policy every campaign under it must obey.
type Organization struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	ContactEmail        string    `db:"contact_email" json:"contact_email"`
	Currency            string    `db:"currency" json:"currency"`
	DailySendCap        int       `db:"daily_send_cap" json:"daily_send_cap"`
	FollowUpWindowHours int       `db:"follow_up_window_hours" json:"follow_up_window_hours"`
	MaxFollowUps        int       `db:"max_follow_ups" json:"max_follow_ups"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
