package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/server/models"
	"github.com/reviewflow/reviewflow/internal/server/repositories/repomanager"
)

// CampaignService manages review funnels.
type CampaignService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCampaignService(db *sql.DB, m repomanager.RepositoryManager) *CampaignService {
	return &CampaignService{db: db, repomanager: m}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateCampaign creates a funnel. Name is required; the external review
// links are optional and stored as NULL when blank.
func (s *CampaignService) CreateCampaign(ctx context.Context, name, googleLink, yelpLink string) (*models.Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Campaigns(s.db)
	campaign, err := repo.Create(ctx, &models.Campaign{
		Name:       name,
		GoogleLink: nullString(googleLink),
		YelpLink:   nullString(yelpLink),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating campaign: %v", err)
	}

	return campaign, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id int64) (*models.Campaign, error) {
	repo := s.repomanager.Campaigns(s.db)
	campaign, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching campaign: %v", err)
	}
	return campaign, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	repo := s.repomanager.Campaigns(s.db)
	campaigns, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing campaigns: %v", err)
	}
	return campaigns, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, id int64, name, googleLink, yelpLink string) (*models.Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Campaigns(s.db)
	campaign, err := repo.Update(ctx, &models.Campaign{
		ID:         id,
		Name:       name,
		GoogleLink: nullString(googleLink),
		YelpLink:   nullString(yelpLink),
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating campaign: %v", err)
	}

	return campaign, nil
}

// DeleteCampaign removes the funnel; its reviews go with it (FK cascade).
func (s *CampaignService) DeleteCampaign(ctx context.Context, id int64) error {
	repo := s.repomanager.Campaigns(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting campaign: %v", err)
	}
	return nil
}

// CampaignStats returns the per-campaign aggregates from the campaign_stats view.
func (s *CampaignService) CampaignStats(ctx context.Context) ([]*models.CampaignStats, error) {
	repo := s.repomanager.Campaigns(s.db)
	stats, err := repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching campaign stats: %v", err)
	}
	return stats, nil
}
