package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	database "condoku_backend/internals/databases"
	"condoku_backend/internals/features/delinquency/model"
	"condoku_backend/internals/features/delinquency/service"
	helperAuth "condoku_backend/internals/helpers/auth"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slip(doc string, ref int, imported time.Time) *model.PaymentSlip {
	return &model.PaymentSlip{
		Reference:      ref,
		PropertyGroup:  "Residencial Aurora",
		PayerName:      "Pagador",
		Unit:           doc,
		DocumentID:     doc,
		DueDate:        datatypes.Date(day(2024, 5, 10)),
		OriginalAmount: decimal.NewFromInt(100),
		TotalAmount:    decimal.NewFromInt(102),
		ImportDate:     datatypes.Date(imported),
		Active:         true,
	}
}

func TestFindByDocumentMissing(t *testing.T) {
	repo := NewSlipRepository(newTestDB(t))

	s, err := repo.FindByDocument(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLatestImportDate(t *testing.T) {
	ctx := context.Background()
	repo := NewSlipRepository(newTestDB(t))

	latest, err := repo.LatestImportDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.InsertSlip(ctx, slip("A", 1, day(2024, 6, 1))))
	require.NoError(t, repo.InsertSlip(ctx, slip("B", 1, day(2024, 6, 28))))
	require.NoError(t, repo.InsertSlip(ctx, slip("C", 2, day(2024, 6, 15))))

	latest, err = repo.LatestImportDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2024-06-28", latest.Format("2006-01-02"))
}

func TestListOpenSlips(t *testing.T) {
	ctx := context.Background()
	repo := NewSlipRepository(newTestDB(t))
	imported := day(2024, 6, 30)

	require.NoError(t, repo.InsertSlip(ctx, slip("A", 1, imported)))
	require.NoError(t, repo.InsertSlip(ctx, slip("B", 2, imported)))
	require.NoError(t, repo.InsertSlip(ctx, slip("C", 2, imported)))
	inactive := slip("D", 1, imported)
	inactive.Active = false
	require.NoError(t, repo.InsertSlip(ctx, inactive))
	require.NoError(t, repo.MarkSettled(ctx, "C", imported))

	all, err := repo.ListOpenSlips(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyTwo, err := repo.ListOpenSlips(ctx, []int{2})
	require.NoError(t, err)
	require.Len(t, onlyTwo, 1)
	assert.Equal(t, "B", onlyTwo[0].DocumentID)

	docs, err := repo.ListUnsettledDocuments(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "D"}, docs)
}

func TestPurgeBatchDocuments(t *testing.T) {
	ctx := context.Background()
	repo := NewSlipRepository(newTestDB(t))
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"old", "recent", "open"} {
		require.NoError(t, repo.CreateBatch(ctx, &model.ImportBatch{
			ID: id, Kind: model.ImportKindReset, TotalParts: 2, LastPart: 1, CreatedAt: now.AddDate(0, 0, -10),
		}))
		require.NoError(t, repo.AppendBatchDocuments(ctx, id, []string{"A", "B", "A"}))
	}
	require.NoError(t, repo.CompleteBatch(ctx, "old", now.AddDate(0, 0, -8)))
	require.NoError(t, repo.CompleteBatch(ctx, "recent", now.Add(-time.Hour)))

	n, err := repo.PurgeBatchDocuments(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for id, want := range map[string]int{"old": 0, "recent": 2, "open": 2} {
		docs, err := repo.BatchDocuments(ctx, id)
		require.NoError(t, err)
		assert.Len(t, docs, want, id)
	}
}

func TestTouchBatchOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	repo := NewSlipRepository(newTestDB(t))

	require.NoError(t, repo.CreateBatch(ctx, &model.ImportBatch{ID: "b", Kind: model.ImportKindIncremental, TotalParts: 3, LastPart: 2}))
	require.NoError(t, repo.TouchBatch(ctx, "b", 1))
	b, err := repo.FindBatch(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.LastPart)

	require.NoError(t, repo.TouchBatch(ctx, "b", 3))
	b, err = repo.FindBatch(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 3, b.LastPart)

	missing, err := repo.FindBatch(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestScopedReadersWithCaller(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, NewSlipRepository(db).InsertSlip(ctx, slip("A", 1, day(2024, 6, 30))))

	readers := NewScopedReaders(db, false)
	assert.Error(t, readers.WithCaller(ctx, nil, func(service.SlipReader) error { return nil }))

	caller := &helperAuth.Caller{UserID: "u-1", Role: helperAuth.RoleAuthenticated, Token: "t"}
	var got []model.PaymentSlip
	err := readers.WithCaller(ctx, caller, func(r service.SlipReader) error {
		var err error
		got, err = r.ListOpenSlips(ctx, nil)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
