package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/server/models"
	"github.com/reviewflow/reviewflow/internal/server/repositories/repomanager"
	"github.com/reviewflow/reviewflow/internal/server/repositories/reviews"
)

// ReviewService records and lists customer ratings.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

// SubmitReview records a rating from a campaign link. leadID, campaignID,
// and a rating of 1..5 are required; feedback text is optional.
func (s *ReviewService) SubmitReview(ctx context.Context, leadID string, campaignID int64, rating int, feedback string) (*models.Review, error) {
	if leadID == "" || campaignID == 0 || rating == 0 {
		return nil, common.ErrorValidation
	}
	if rating < 1 || rating > 5 {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Reviews(s.db)
	review, err := repo.Create(ctx, &models.Review{
		LeadID:     leadID,
		CampaignID: campaignID,
		Rating:     rating,
		Feedback:   sql.NullString{String: feedback, Valid: feedback != ""},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating review: %v", err)
	}

	return review, nil
}

// ListReviews returns reviews newest first, optionally narrowed by campaign
// and lead. The unfiltered listing is capped by the repository.
func (s *ReviewService) ListReviews(ctx context.Context, filter reviews.Filter) ([]*models.Review, error) {
	repo := s.repomanager.Reviews(s.db)
	list, err := repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %v", err)
	}
	return list, nil
}
