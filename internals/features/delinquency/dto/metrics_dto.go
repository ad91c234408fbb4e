package dto

import (
	"condoku_backend/internals/features/delinquency/service"
	"condoku_backend/internals/helpers/format"
)

type MetricsDTO struct {
	TotalUnits        int     `json:"totalUnidades"`
	DelinquentUnits   int     `json:"unidadesInadimplentes"`
	DelinquencyRate   float64 `json:"percentualInadimplencia"`
	OutstandingAmount float64 `json:"valorTotalInadimplente"`
	OpenSlipCount     int     `json:"quantidadeBoletosAbertos"`
}

type MetricsResponse struct {
	Metrics        MetricsDTO `json:"metricas"`
	LastImportDate *string    `json:"ultimaImportacao"`
	Message        string     `json:"message,omitempty"`
}

func ToMetricsDTO(m service.DelinquencyMetrics) MetricsDTO {
	return MetricsDTO{
		TotalUnits:        m.TotalUnits,
		DelinquentUnits:   m.DelinquentUnits,
		DelinquencyRate:   m.DelinquencyRate,
		OutstandingAmount: m.TotalOutstandingAmount.InexactFloat64(),
		OpenSlipCount:     m.OpenSlipCount,
	}
}

func ToMetricsResponse(r service.MetricsReport) MetricsResponse {
	out := MetricsResponse{Metrics: ToMetricsDTO(r.Metrics), Message: r.Message}
	if r.LastImportDate != nil {
		s := format.Date(*r.LastImportDate)
		out.LastImportDate = &s
	}
	return out
}
