package domain

import "time"

// Review is a visitor-submitted note on a vehicle detail page. Reviewer
// names are denormalized onto the read path so the detail view renders
// without a second lookup.
type Review struct {
	ID        int64     `json:"id"`
	VehicleID int64     `json:"vehicle_id"`
	AccountID int64     `json:"account_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	ReviewerFirstName string `json:"reviewer_first_name,omitempty"`
	ReviewerLastName  string `json:"reviewer_last_name,omitempty"`
}
