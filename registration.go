package mcsc

import (
	"time"
)

// Registration is a membership request. It stays unapproved until an admin of
// the student's building verifies it.
type Registration struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Code string `json:"code"`

	Class      string `json:"class"`
	Section    string `json:"section"`
	Campus     string `json:"campus"`
	Version    string `json:"version"`
	Department string `json:"department"`
	Building   string `json:"building"`

	ContactNumber string `json:"contactNumber"`

	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Admin identifies a building admin returned by the admin login endpoint.
type Admin struct {
	Username string `json:"username"`
	Building string `json:"building"`
}
