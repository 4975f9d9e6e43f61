package reviews

import (
	"context"

	"github.com/reviewflow/reviewflow/internal/server/models"
)

// Filter narrows List. Zero values mean "no constraint".
type Filter struct {
	CampaignID int64
	LeadID     string
}

type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	List(ctx context.Context, filter Filter) ([]*models.Review, error)
}
