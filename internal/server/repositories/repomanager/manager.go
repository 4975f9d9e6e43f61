package repomanager

import (
	"context"
	"database/sql"

	"github.com/reviewflow/reviewflow/internal/dbx"
	"github.com/reviewflow/reviewflow/internal/server/repositories/campaigns"
	"github.com/reviewflow/reviewflow/internal/server/repositories/reviews"
	"github.com/reviewflow/reviewflow/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Campaigns(db dbx.DBTX) campaigns.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
