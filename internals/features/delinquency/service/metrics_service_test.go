package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	database "condoku_backend/internals/databases"
	"condoku_backend/internals/features/delinquency/model"
	"condoku_backend/internals/features/delinquency/repository"
	"condoku_backend/internals/features/delinquency/service"
	helperAuth "condoku_backend/internals/helpers/auth"
	"condoku_backend/internals/helpers/dbtime"
)

var testCaller = &helperAuth.Caller{UserID: "u-1", Role: helperAuth.RoleAuthenticated, Token: "tok"}

func newMetricsService(scope service.ReaderScope) *service.MetricsService {
	return service.NewMetricsService(scope, dbtime.FixedClock(testNow), zerolog.Nop())
}

func TestGetMetricsUnauthorized(t *testing.T) {
	svc := newMetricsService(repository.NewScopedReaders(newTestDB(t), false))

	_, err := svc.GetMetrics(context.Background(), nil, nil)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.GetMetrics(context.Background(), &helperAuth.Caller{UserID: "u"}, nil)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestGetMetricsMissingTable(t *testing.T) {
	db, err := database.OpenSQLite("file:metrics_missing_table?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	svc := newMetricsService(repository.NewScopedReaders(db, false))
	rep, err := svc.GetMetrics(context.Background(), testCaller, nil)
	require.NoError(t, err)
	assert.Equal(t, service.MsgTableMissing, rep.Message)
	assert.Nil(t, rep.LastImportDate)
	assert.Zero(t, rep.Metrics.TotalUnits)
	assert.Zero(t, rep.Metrics.DelinquencyRate)
}

func TestGetMetricsEmptyStore(t *testing.T) {
	svc := newMetricsService(repository.NewScopedReaders(newTestDB(t), false))

	rep, err := svc.GetMetrics(context.Background(), testCaller, nil)
	require.NoError(t, err)
	assert.Equal(t, service.MsgNoData, rep.Message)
	assert.Nil(t, rep.LastImportDate)
}

func TestGetMetrics(t *testing.T) {
	db := newTestDB(t)
	im := newImporter(repository.NewSlipRepository(db))
	ctx := context.Background()

	recent := row("D4", 2, "201", "80.00")
	recent.DueDate = datatypes.Date(testNow.AddDate(0, 0, -5))
	_, err := im.Import(ctx, []model.PaymentSlip{
		row("D1", 1, "101", "100.00"),
		row("D2", 1, "101", "50.00"),
		row("D3", 1, "102", "25.50"),
		recent,
	}, service.ImportOptions{})
	require.NoError(t, err)

	svc := newMetricsService(repository.NewScopedReaders(db, false))

	rep, err := svc.GetMetrics(ctx, testCaller, nil)
	require.NoError(t, err)
	assert.Empty(t, rep.Message)
	assert.Equal(t, 3, rep.Metrics.TotalUnits)
	assert.Equal(t, 2, rep.Metrics.DelinquentUnits)
	assert.Equal(t, 3, rep.Metrics.OpenSlipCount)
	assert.Equal(t, "175.5", rep.Metrics.TotalOutstandingAmount.String())
	require.NotNil(t, rep.LastImportDate)
	assert.Equal(t, "2024-06-30", rep.LastImportDate.Format(dbtime.LayoutISODate))

	only2, err := svc.GetMetrics(ctx, testCaller, []int{2})
	require.NoError(t, err)
	assert.Equal(t, 1, only2.Metrics.TotalUnits)
	assert.Equal(t, 0, only2.Metrics.DelinquentUnits)
	assert.Equal(t, 0.0, only2.Metrics.DelinquencyRate)
}

func TestGetMetricsIgnoresSettledAndInactive(t *testing.T) {
	db := newTestDB(t)
	im := newImporter(repository.NewSlipRepository(db))
	ctx := context.Background()

	_, err := im.Import(ctx, rows("A", "B"), service.ImportOptions{})
	require.NoError(t, err)
	_, err = im.Import(ctx, rows("A"), service.ImportOptions{})
	require.NoError(t, err)

	rep, err := newMetricsService(repository.NewScopedReaders(db, false)).GetMetrics(ctx, testCaller, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Metrics.TotalUnits)
	assert.Equal(t, 1, rep.Metrics.OpenSlipCount)
}

type stubReader struct {
	slips   []model.PaymentSlip
	listErr error
	lastErr error
}

func (s stubReader) ListOpenSlips(context.Context, []int) ([]model.PaymentSlip, error) {
	return s.slips, s.listErr
}

func (s stubReader) LatestImportDate(context.Context) (*time.Time, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	t := testNow
	return &t, nil
}

type stubScope struct{ r stubReader }

func (s stubScope) WithCaller(_ context.Context, _ *helperAuth.Caller, fn func(service.SlipReader) error) error {
	return fn(s.r)
}

func TestGetMetricsStoreFailure(t *testing.T) {
	svc := newMetricsService(stubScope{r: stubReader{listErr: errors.New("connection reset")}})

	_, err := svc.GetMetrics(context.Background(), testCaller, nil)
	assert.ErrorIs(t, err, service.ErrStore)
}

func TestGetMetricsLastImportFailureIsIgnored(t *testing.T) {
	svc := newMetricsService(stubScope{r: stubReader{
		slips:   []model.PaymentSlip{row("A", 1, "101", "10.00")},
		lastErr: errors.New("timeout"),
	}})

	rep, err := svc.GetMetrics(context.Background(), testCaller, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Metrics.OpenSlipCount)
	assert.Nil(t, rep.LastImportDate)
}
