package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"optimapricer/internal/model"
)

var marketDataCols = []string{"id", "product_id", "source", "price", "url", "snapshot_key", "scraped_at"}

func TestMarketDataPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMarketDataPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := "https://www.amazon.com/dp/B0ABC"
	key := "snapshots/prod-1/20260823T120000Z.html"
	md := &model.MarketData{
		ID:          "md-1",
		ProductID:   "prod-1",
		Source:      "amazon",
		Price:       99.99,
		URL:         &u,
		SnapshotKey: &key,
		ScrapedAt:   now,
	}

	rows := sqlmock.NewRows(marketDataCols).
		AddRow(md.ID, md.ProductID, md.Source, md.Price, u, key, md.ScrapedAt)

	mock.ExpectQuery("INSERT INTO market_data").
		WithArgs(md.ID, md.ProductID, md.Source, md.Price, md.URL, md.SnapshotKey, md.ScrapedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, md)

	assert.NoError(t, err)
	assert.Equal(t, 99.99, result.Price)
	assert.NotNil(t, result.SnapshotKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketDataPostgres_ListByProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMarketDataPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(marketDataCols).
		AddRow("md-1", "prod-1", "amazon", 99.99, nil, nil, time.Now().Add(-time.Hour)).
		AddRow("md-2", "prod-1", "walmart", 95.00, nil, nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM market_data").
		WithArgs("prod-1").
		WillReturnRows(rows)

	items, err := repo.ListByProduct(ctx, "prod-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "amazon", items[0].Source)
	assert.Nil(t, items[0].URL)
}

func TestMarketDataPostgres_ListSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMarketDataPostgres(db)
	ctx := context.Background()

	cutoff := time.Now().Add(-24 * time.Hour)
	rows := sqlmock.NewRows(marketDataCols).
		AddRow("md-2", "prod-1", "walmart", 95.00, nil, nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM market_data").
		WithArgs("prod-1", cutoff).
		WillReturnRows(rows)

	items, err := repo.ListSince(ctx, "prod-1", cutoff)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "walmart", items[0].Source)
}
