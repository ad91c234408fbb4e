package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	helper "condoku_backend/internals/helpers"
	helperAuth "condoku_backend/internals/helpers/auth"
	"condoku_backend/internals/helpers/dbtime"
)

const (
	MsgTableMissing = "Tabela ainda não foi criada. Faça o primeiro upload de dados."
	MsgNoData       = "Nenhum dado encontrado. Faça o primeiro upload de dados."
)

// MetricsReport is what the dashboard renders. Message is only set on first-run payloads.
type MetricsReport struct {
	Metrics        DelinquencyMetrics
	LastImportDate *time.Time
	Message        string
}

type MetricsService struct {
	Readers ReaderScope
	Clock   dbtime.Clock
	Log     zerolog.Logger
}

func NewMetricsService(readers ReaderScope, clock dbtime.Clock, log zerolog.Logger) *MetricsService {
	return &MetricsService{Readers: readers, Clock: clock, Log: log}
}

// GetMetrics computes the dashboard metrics over active, unsettled slips visible to caller,
// optionally limited to the given references.
func (s *MetricsService) GetMetrics(ctx context.Context, caller *helperAuth.Caller, refs []int) (MetricsReport, error) {
	if caller == nil || strings.TrimSpace(caller.Token) == "" {
		return MetricsReport{}, ErrUnauthorized
	}

	var report MetricsReport
	err := s.Readers.WithCaller(ctx, caller, func(r SlipReader) error {
		slips, err := r.ListOpenSlips(ctx, refs)
		if err != nil {
			if helper.IsUndefinedTable(err) {
				report.Message = MsgTableMissing
				return nil
			}
			return storeErr("list open slips", err)
		}
		if len(slips) == 0 {
			report.Message = MsgNoData
			return nil
		}

		report.Metrics = ComputeDelinquencyMetrics(slips, s.Clock.Today())

		last, err := r.LatestImportDate(ctx)
		if err != nil {
			s.Log.Warn().Err(err).Msg("latest import date unavailable")
			return nil
		}
		report.LastImportDate = last
		return nil
	})
	if err != nil {
		if helper.IsUndefinedTable(err) {
			return MetricsReport{Message: MsgTableMissing}, nil
		}
		var se *StoreError
		if !errors.As(err, &se) {
			err = storeErr("scoped read", err)
		}
		return MetricsReport{}, err
	}
	return report, nil
}
