package models

import (
	"database/sql"
	"time"
)

// Review is a single customer rating submitted through a campaign link.
// LeadID identifies the customer the review link was sent to; it is an
// opaque value minted by whatever system distributes the links.
type Review struct {
	ID         int64
	LeadID     string
	CampaignID int64
	Rating     int
	Feedback   sql.NullString
	CreatedAt  time.Time
}
