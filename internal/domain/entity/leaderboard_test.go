package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardPeriod_Window(t *testing.T) {
	now := time.Date(2026, time.August, 17, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    LeaderboardPeriod
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "monthly",
			period:    PeriodMonthly,
			wantStart: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "quarterly",
			period:    PeriodQuarterly,
			wantStart: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly",
			period:    PeriodYearly,
			wantStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.period.Window(now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestLeaderboardPeriod_WindowAllTimeCoversNow(t *testing.T) {
	now := time.Now()
	start, end := PeriodAllTime.Window(now)

	assert.True(t, start.Before(now))
	assert.True(t, end.After(now))
}

func TestLeaderboardPeriod_IsValid(t *testing.T) {
	assert.True(t, PeriodMonthly.IsValid())
	assert.True(t, PeriodAllTime.IsValid())
	assert.False(t, LeaderboardPeriod("weekly").IsValid())
}

func TestPaymentProof_IsRoutable(t *testing.T) {
	sdg := 3

	assert.False(t, (&PaymentProof{Status: ProofStatusPending, SDGID: &sdg}).IsRoutable())
	assert.False(t, (&PaymentProof{Status: ProofStatusApproved}).IsRoutable())
	assert.False(t, (&PaymentProof{Status: ProofStatusRejected, SDGID: &sdg}).IsRoutable())
	assert.True(t, (&PaymentProof{Status: ProofStatusApproved, SDGID: &sdg}).IsRoutable())
}

func TestUser_Owner(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	assert.Nil(t, admin.Owner())

	company := &User{Role: RoleCompany, Company: &Company{Name: "Sonangol Verde"}}
	owner := company.Owner()
	if assert.NotNil(t, owner) {
		assert.Equal(t, OwnerTypeCompany, owner.Type)
		assert.Equal(t, "Sonangol Verde", owner.Name)
	}
}

func TestReductionPercentage(t *testing.T) {
	tests := []struct {
		name         string
		compensated  string
		compensation string
		want         string
	}{
		{"half paid", "500", "1000", "50"},
		{"overpaid is capped", "1500", "1000", "100"},
		{"nothing to compensate", "300", "0", "0"},
		{"rounded", "1", "3", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReductionPercentage(decimal.RequireFromString(tt.compensated), decimal.RequireFromString(tt.compensation))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestRankLeaderboard(t *testing.T) {
	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(48 * time.Hour)

	totals := []*CompanyPeriodTotals{
		{CompanyID: uuid.New(), CompanyName: "Delta", EmissionKgCO2: decimal.NewFromInt(10), CompensationValueKz: decimal.NewFromInt(100), CompensatedKz: decimal.NewFromInt(20)},
		{CompanyID: uuid.New(), CompanyName: "Alpha", EmissionKgCO2: decimal.NewFromInt(50), CompensationValueKz: decimal.NewFromInt(1000), CompensatedKz: decimal.NewFromInt(1000)},
		{CompanyID: uuid.New(), CompanyName: "Bravo", EmissionKgCO2: decimal.NewFromInt(40), CompensationValueKz: decimal.NewFromInt(200), CompensatedKz: decimal.NewFromInt(200)},
		{CompanyID: uuid.New(), CompanyName: "Charlie", EmissionKgCO2: decimal.NewFromInt(30), CompensationValueKz: decimal.NewFromInt(200), CompensatedKz: decimal.NewFromInt(200)},
		{CompanyID: uuid.New(), CompanyName: "Echo", EmissionKgCO2: decimal.Zero, CompensationValueKz: decimal.Zero, CompensatedKz: decimal.Zero},
	}

	entries := RankLeaderboard(PeriodMonthly, start, now, totals)
	require.Len(t, entries, 5)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.CompanyName
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, PeriodMonthly, e.Period)
		assert.Equal(t, start, e.PeriodStart)
	}

	// Alpha has the most compensation among the 100% group, Charlie emits less than Bravo.
	assert.Equal(t, []string{"Alpha", "Charlie", "Bravo", "Delta", "Echo"}, names)
	assert.True(t, decimal.NewFromInt(20).Equal(entries[3].ReductionPercentage))
}
