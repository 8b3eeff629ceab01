package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"optimapricer/internal/model"
)

var storeCols = []string{"id", "user_id", "name", "platform", "api_key", "api_secret", "is_active", "created_at", "updated_at"}

func TestStorePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStorePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	s := &model.Store{
		ID:        "store-1",
		UserID:    "user-1",
		Name:      "Main Shop",
		Platform:  model.PlatformShopify,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	rows := sqlmock.NewRows(storeCols).
		AddRow(s.ID, s.UserID, s.Name, s.Platform, nil, nil, s.IsActive, s.CreatedAt, s.UpdatedAt)

	mock.ExpectQuery("INSERT INTO stores").
		WithArgs(s.ID, s.UserID, s.Name, s.Platform, s.APIKey, s.APISecret, s.IsActive, s.CreatedAt, s.UpdatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, s)

	assert.NoError(t, err)
	assert.Equal(t, "Main Shop", result.Name)
	assert.Nil(t, result.APIKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStorePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(storeCols).
			AddRow("store-1", "user-1", "Main Shop", "shopify", "key", nil, true, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM stores WHERE id = (.+) AND user_id = ?").
			WithArgs("store-1", "user-1").
			WillReturnRows(rows)

		s, err := repo.FindByID(ctx, "store-1", "user-1")

		assert.NoError(t, err)
		assert.NotNil(t, s.APIKey)
		assert.Equal(t, "key", *s.APIKey)
	})

	t.Run("other user's store", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM stores WHERE id = (.+) AND user_id = ?").
			WithArgs("store-1", "user-2").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.FindByID(ctx, "store-1", "user-2")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, s)
	})
}

func TestStorePostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStorePostgres(db)
	ctx := context.Background()

	cols := append(append([]string{}, storeCols...), "product_count")
	rows := sqlmock.NewRows(cols).
		AddRow("store-2", "user-1", "Outlet", "ebay", nil, nil, true, time.Now(), time.Now(), 3).
		AddRow("store-1", "user-1", "Main Shop", "shopify", nil, nil, true, time.Now(), time.Now(), 12)

	mock.ExpectQuery("SELECT (.+) FROM stores s").
		WithArgs("user-1").
		WillReturnRows(rows)

	stores, err := repo.ListByUser(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, stores, 2)
	assert.Equal(t, 3, stores[0].Count.Products)
	assert.Equal(t, 12, stores[1].Count.Products)
}

func TestStorePostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStorePostgres(db)
	ctx := context.Background()

	s := &model.Store{
		ID:        "store-1",
		UserID:    "user-1",
		Name:      "Renamed",
		Platform:  model.PlatformOther,
		IsActive:  false,
		UpdatedAt: time.Now().UTC(),
	}

	rows := sqlmock.NewRows(storeCols).
		AddRow(s.ID, s.UserID, s.Name, s.Platform, nil, nil, s.IsActive, time.Now(), s.UpdatedAt)

	mock.ExpectQuery("UPDATE stores").
		WithArgs(s.ID, s.UserID, s.Name, s.Platform, s.APIKey, s.APISecret, s.IsActive, s.UpdatedAt).
		WillReturnRows(rows)

	result, err := repo.Update(ctx, s)

	assert.NoError(t, err)
	assert.Equal(t, "Renamed", result.Name)
	assert.False(t, result.IsActive)
}

func TestStorePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStorePostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM stores WHERE id = (.+) AND user_id = ?").
		WithArgs("store-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "store-1", "user-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
