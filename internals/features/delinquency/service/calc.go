package service

import (
	"time"

	"github.com/shopspring/decimal"

	"condoku_backend/internals/features/delinquency/model"
	"condoku_backend/internals/helpers/dbtime"
)

// OverdueThresholdDays is the grace period before an open slip counts as delinquent.
const OverdueThresholdDays = 30

var (
	penaltyRate     = decimal.RequireFromString("0.02")
	monthlyInterest = decimal.RequireFromString("0.01")
	daysPerMonth    = decimal.NewFromInt(30)
	hundred         = decimal.NewFromInt(100)
)

// DelinquencyMetrics is derived on every query and never persisted.
type DelinquencyMetrics struct {
	TotalUnits             int
	DelinquentUnits        int
	DelinquencyRate        float64
	TotalOutstandingAmount decimal.Decimal
	OpenSlipCount          int
}

// ComputePenalty is the flat 2% late fee.
func ComputePenalty(originalAmount decimal.Decimal) decimal.Decimal {
	return originalAmount.Mul(penaltyRate)
}

// ComputeInterest prorates 1% a month per day late, without compounding.
func ComputeInterest(originalAmount decimal.Decimal, daysOverdue int) decimal.Decimal {
	return originalAmount.Mul(monthlyInterest).Mul(decimal.NewFromInt(int64(daysOverdue))).Div(daysPerMonth)
}

// ComputeTotalAmount defaults a missing penalty to ComputePenalty but a missing
// interest to zero.
func ComputeTotalAmount(originalAmount decimal.Decimal, penalty, interest decimal.NullDecimal) decimal.Decimal {
	p := ComputePenalty(originalAmount)
	if penalty.Valid {
		p = penalty.Decimal
	}
	i := decimal.Zero
	if interest.Valid {
		i = interest.Decimal
	}
	return originalAmount.Add(p).Add(i)
}

// DaysOverdue counts calendar days from due to asOf.
func DaysOverdue(due, asOf time.Time) int {
	return dbtime.DaysBetween(due, asOf)
}

func IsOverdueMoreThan30Days(due, asOf time.Time) bool {
	return DaysOverdue(due, asOf) > OverdueThresholdDays
}

// IsOpen reports whether a slip is unsettled and past the grace period.
func IsOpen(s model.PaymentSlip, asOf time.Time) bool {
	return !s.Settled && IsOverdueMoreThan30Days(s.DueTime(), asOf)
}

// ComputeDelinquencyMetrics aggregates slips as of the given date.
func ComputeDelinquencyMetrics(records []model.PaymentSlip, asOf time.Time) DelinquencyMetrics {
	allUnits := make(map[string]struct{}, len(records))
	openUnits := make(map[string]struct{})
	outstanding := decimal.Zero
	openSlips := 0

	for _, r := range records {
		key := r.UnitKey()
		allUnits[key] = struct{}{}
		if !IsOpen(r, asOf) {
			continue
		}
		openUnits[key] = struct{}{}
		outstanding = outstanding.Add(r.TotalAmount)
		openSlips++
	}

	m := DelinquencyMetrics{
		TotalUnits:             len(allUnits),
		DelinquentUnits:        len(openUnits),
		TotalOutstandingAmount: outstanding,
		OpenSlipCount:          openSlips,
	}
	if m.TotalUnits > 0 {
		rate := decimal.NewFromInt(int64(m.DelinquentUnits)).
			Div(decimal.NewFromInt(int64(m.TotalUnits))).
			Mul(hundred)
		m.DelinquencyRate = rate.InexactFloat64()
	}
	return m
}
