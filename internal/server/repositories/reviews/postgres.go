// Package reviews contains the PostgreSQL repository for submitted ratings.
package reviews

import (
	"context"
	"fmt"

	"github.com/reviewflow/reviewflow/internal/dbx"
	"github.com/reviewflow/reviewflow/internal/server/models"
)

// unfilteredLimit caps the result set when no filter is supplied.
const unfilteredLimit = 100

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {

	query :=
		`INSERT INTO reviews (lead_id, campaign_id, rating, feedback)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.LeadID, review.CampaignID, review.Rating, review.Feedback).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*models.Review, error) {

	var query string
	var args []any

	switch {
	case filter.CampaignID != 0 && filter.LeadID != "":
		query =
			`SELECT id, lead_id, campaign_id, rating, feedback, created_at FROM reviews
			 WHERE campaign_id = $1 AND lead_id = $2
			 ORDER BY created_at DESC
			 `
		args = []any{filter.CampaignID, filter.LeadID}
	case filter.CampaignID != 0:
		query =
			`SELECT id, lead_id, campaign_id, rating, feedback, created_at FROM reviews
			 WHERE campaign_id = $1
			 ORDER BY created_at DESC
			 `
		args = []any{filter.CampaignID}
	default:
		query =
			`SELECT id, lead_id, campaign_id, rating, feedback, created_at FROM reviews
			 ORDER BY created_at DESC
			 LIMIT $1
			 `
		args = []any{unfilteredLimit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		rev := &models.Review{}
		if err := rows.Scan(&rev.ID, &rev.LeadID, &rev.CampaignID, &rev.Rating, &rev.Feedback, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reviews, nil
}
