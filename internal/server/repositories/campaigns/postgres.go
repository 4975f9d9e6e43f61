// Package campaigns contains the PostgreSQL repository for review funnels.
package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/dbx"
	"github.com/reviewflow/reviewflow/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {

	query :=
		`INSERT INTO campaigns (name, google_link, yelp_link)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		campaign.Name, campaign.GoogleLink, campaign.YelpLink).Scan(&campaign.ID, &campaign.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return campaign, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	query :=
		`SELECT id, name, google_link, yelp_link, created_at FROM campaigns
		 WHERE id = $1
		 `

	campaign := &models.Campaign{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&campaign.ID, &campaign.Name, &campaign.GoogleLink, &campaign.YelpLink, &campaign.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return campaign, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Campaign, error) {
	query :=
		`SELECT id, name, google_link, yelp_link, created_at FROM campaigns
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c := &models.Campaign{}
		if err := rows.Scan(&c.ID, &c.Name, &c.GoogleLink, &c.YelpLink, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return campaigns, nil
}

func (r *PostgresRepository) Update(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	query :=
		`UPDATE campaigns
		 SET name = $1, google_link = $2, yelp_link = $3
		 WHERE id = $4
		 RETURNING id, name, google_link, yelp_link, created_at
		 `

	updated := &models.Campaign{}
	err := r.db.QueryRowContext(ctx, query,
		campaign.Name, campaign.GoogleLink, campaign.YelpLink, campaign.ID).
		Scan(&updated.ID, &updated.Name, &updated.GoogleLink, &updated.YelpLink, &updated.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM campaigns
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Stats(ctx context.Context) ([]*models.CampaignStats, error) {
	query :=
		`SELECT campaign_id, name, review_count, average_rating, last_review_at FROM campaign_stats
		 ORDER BY campaign_id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var stats []*models.CampaignStats
	for rows.Next() {
		s := &models.CampaignStats{}
		if err := rows.Scan(&s.CampaignID, &s.Name, &s.ReviewCount, &s.AverageRating, &s.LastReviewAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}
