// internal/model/school.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Demographics maps attribute name to value, e.g.
// {"socioeconomic": "low", "area_type": "rural"}. Values feed the pricing
// engine; the evaluation order is declared by the campaign policy, not here.
type Demographics map[string]string

func (d Demographics) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Demographics) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Demographics{}
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into Demographics", src)
	}
}

type School struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Address      string       `db:"address" json:"address"`
	District     string       `db:"district" json:"district,omitempty"`
	Province     string       `db:"province" json:"province"`
	PostalCode   string       `db:"postal_code" json:"postal_code,omitempty"`
	Phone        string       `db:"phone" json:"phone,omitempty"`
	Email        string       `db:"email" json:"email,omitempty"`
	Website      string       `db:"website" json:"website,omitempty"`
	StudentCount *int         `db:"student_count" json:"student_count,omitempty"`
	Demographics Demographics `db:"demographics" json:"demographics"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
