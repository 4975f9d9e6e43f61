package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+campaigns\s*\(name,\s*google_link,\s*yelp_link\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now())
	mock.ExpectQuery(q).
		WithArgs("Spring", sql.NullString{String: "https://g.page/x", Valid: true}, sql.NullString{}).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Campaign{
		Name:       "Spring",
		GoogleLink: sql.NullString{String: "https://g.page/x", Valid: true},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected campaign: %+v", got)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*google_link,\s*yelp_link,\s*created_at\s+FROM\s+campaigns\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "google_link", "yelp_link", "created_at"}).
		AddRow(int64(5), "Spring", "https://g.page/x", nil, time.Now())
	mock.ExpectQuery(q).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Spring" || !got.GoogleLink.Valid || got.YelpLink.Valid {
		t.Fatalf("unexpected campaign: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*name,\s*google_link`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*name,\s*google_link`).
		WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+campaigns`).
		WithArgs("Spring", sql.NullString{}, sql.NullString{}, int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Campaign{ID: 99, Name: "Spring"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+campaigns`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestStats_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+campaign_id,\s*name,\s*review_count,\s*average_rating,\s*last_review_at\s+FROM\s+campaign_stats\s+ORDER\s+BY\s+campaign_id\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"campaign_id", "name", "review_count", "average_rating", "last_review_at"}).
		AddRow(int64(1), "Spring", int64(12), 4.5, now).
		AddRow(int64(2), "Fall", int64(0), nil, nil)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if !got[0].AverageRating.Valid || got[0].AverageRating.Float64 != 4.5 {
		t.Fatalf("unexpected average: %+v", got[0])
	}
	if got[1].AverageRating.Valid || got[1].LastReviewAt.Valid {
		t.Fatalf("expected NULL aggregates for campaign without reviews: %+v", got[1])
	}
}
