package campaigns

import (
	"context"

	"github.com/reviewflow/reviewflow/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) ([]*models.CampaignStats, error)
}
