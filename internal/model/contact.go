// internal/model/contact.go
package model

import "time"

// Contact positions mirror the people who answer a school's front office.
const (
	PositionPrincipal = "principal"
	PositionAdmin     = "admin"
	PositionSecretary = "secretary"
	PositionOther     = "other"
)

// Contact is an individual recipient at a School. It is the unit the
// consent guard tracks.
type Contact struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Position  string    `db:"position" json:"position"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
