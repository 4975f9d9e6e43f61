package models

import (
	"database/sql"
	"time"
)

// Campaign is a branded review funnel. GoogleLink and YelpLink are the
// external review destinations offered to satisfied customers.
type Campaign struct {
	ID         int64
	Name       string
	GoogleLink sql.NullString
	YelpLink   sql.NullString
	CreatedAt  time.Time
}

// CampaignStats is one row of the campaign_stats view.
type CampaignStats struct {
	CampaignID    int64
	Name          string
	ReviewCount   int64
	AverageRating sql.NullFloat64
	LastReviewAt  sql.NullTime
}
