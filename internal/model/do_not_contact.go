// internal/model/do_not_contact.go
package model

import "time"

// DoNotContact is one entry of the permanent suppression set. Entries are
// never deleted by the system; the email address is the uniqueness key.
type DoNotContact struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Email          string    `db:"email" json:"email"`
	Reason         string    `db:"reason" json:"reason"`
	AddedAt        time.Time `db:"added_at" json:"added_at"`
}
