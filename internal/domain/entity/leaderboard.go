package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaderboardPeriod scopes a leaderboard snapshot.
type LeaderboardPeriod string

const (
	PeriodMonthly   LeaderboardPeriod = "monthly"
	PeriodQuarterly LeaderboardPeriod = "quarterly"
	PeriodYearly    LeaderboardPeriod = "yearly"
	PeriodAllTime   LeaderboardPeriod = "all_time"
)

// String returns the string representation of the LeaderboardPeriod.
func (p LeaderboardPeriod) String() string {
	return string(p)
}

// IsValid checks if the LeaderboardPeriod is a known value.
func (p LeaderboardPeriod) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodAllTime:
		return true
	default:
		return false
	}
}

// Window returns the half-open UTC interval [start, end) of the period containing now.
func (p LeaderboardPeriod) Window(now time.Time) (start, end time.Time) {
	now = now.UTC()
	year, month, _ := now.Date()

	switch p {
	case PeriodMonthly:
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(0, 1, 0)
	case PeriodQuarterly:
		firstMonth := time.Month((int(month)-1)/3*3 + 1)
		start = time.Date(year, firstMonth, 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(0, 3, 0)
	case PeriodYearly:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(1, 0, 0)
	default:
		return time.Unix(0, 0).UTC(), now.Add(time.Second)
	}
}

// LeaderboardEntry is one company's row in a period snapshot.
type LeaderboardEntry struct {
	ID                  uuid.UUID         `json:"id"`
	CompanyID           uuid.UUID         `json:"company_id"`
	CompanyName         string            `json:"company_name"`
	Period              LeaderboardPeriod `json:"period"`
	PeriodStart         time.Time         `json:"period_start"`
	EmissionKgCO2       decimal.Decimal   `json:"emission_kg_co2"`
	CompensationValueKz decimal.Decimal   `json:"compensation_value_kz"`
	CompensatedKz       decimal.Decimal   `json:"compensated_kz"`
	ReductionPercentage decimal.Decimal   `json:"carbon_reduction_percentage"`
	Rank                int               `json:"rank"`
	CalculatedAt        time.Time         `json:"calculated_at"`
}

var hundred = decimal.NewFromInt(100)

// ReductionPercentage is the share of the emission compensation value that was
// actually paid, capped at 100. No compensation value means 0.
func ReductionPercentage(compensatedKz, compensationValueKz decimal.Decimal) decimal.Decimal {
	if !compensationValueKz.IsPositive() {
		return decimal.Zero
	}

	pct := compensatedKz.Div(compensationValueKz).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}

	return pct.Round(2)
}

// RankLeaderboard builds a snapshot from per-company totals. Higher reduction
// ranks first; ties go to higher compensation, then lower emission, then name, then ID.
func RankLeaderboard(period LeaderboardPeriod, periodStart, calculatedAt time.Time, totals []*CompanyPeriodTotals) []*LeaderboardEntry {
	entries := make([]*LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		entries = append(entries, &LeaderboardEntry{
			CompanyID:           t.CompanyID,
			CompanyName:         t.CompanyName,
			Period:              period,
			PeriodStart:         periodStart,
			EmissionKgCO2:       t.EmissionKgCO2,
			CompensationValueKz: t.CompensationValueKz,
			CompensatedKz:       t.CompensatedKz,
			ReductionPercentage: ReductionPercentage(t.CompensatedKz, t.CompensationValueKz),
			CalculatedAt:        calculatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := a.ReductionPercentage.Cmp(b.ReductionPercentage); c != 0 {
			return c > 0
		}
		if c := a.CompensatedKz.Cmp(b.CompensatedKz); c != 0 {
			return c > 0
		}
		if c := a.EmissionKgCO2.Cmp(b.EmissionKgCO2); c != 0 {
			return c < 0
		}
		if a.CompanyName != b.CompanyName {
			return a.CompanyName < b.CompanyName
		}

		return a.CompanyID.String() < b.CompanyID.String()
	})

	for i, e := range entries {
		e.Rank = i + 1
	}

	return entries
}
