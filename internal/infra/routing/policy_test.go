package routing

import (
	"testing"
	"time"

	"carbonledger/config"
	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func project(id string, createdDays int, total int64) *entity.Project {
	return &entity.Project{
		ID:            uuid.MustParse(id),
		SDGID:         13,
		CreatedAt:     base.AddDate(0, 0, createdDays),
		TotalInvested: decimal.NewFromInt(total),
	}
}

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		want    string
		wantErr bool
	}{
		{name: "default", cfg: &config.Config{}, want: config.RoutingPolicyLowestTotalInvested},
		{name: "lowest", cfg: &config.Config{Routing: &config.RoutingConfig{Policy: "lowest_total_invested"}}, want: config.RoutingPolicyLowestTotalInvested},
		{name: "oldest", cfg: &config.Config{Routing: &config.RoutingConfig{Policy: "oldest_first"}}, want: config.RoutingPolicyOldestFirst},
		{name: "unknown", cfg: &config.Config{Routing: &config.RoutingConfig{Policy: "round_robin"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewPolicy(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy.Name())
		})
	}
}

func TestLowestTotalInvested_Select(t *testing.T) {
	a := project("00000000-0000-0000-0000-00000000000a", 0, 500)
	b := project("00000000-0000-0000-0000-00000000000b", 1, 100)
	c := project("00000000-0000-0000-0000-00000000000c", 2, 100)
	d := project("00000000-0000-0000-0000-00000000000d", 1, 100)

	policy := LowestTotalInvested{}

	assert.Nil(t, policy.Select(nil, nil))
	assert.Same(t, a, policy.Select(nil, []*entity.Project{a}))
	assert.Same(t, b, policy.Select(nil, []*entity.Project{a, c, b}), "lowest total, older project wins the tie")
	assert.Same(t, b, policy.Select(nil, []*entity.Project{d, c, b, a}), "same age falls back to the lower id")
}

func TestOldestFirst_Select(t *testing.T) {
	a := project("00000000-0000-0000-0000-00000000000a", 3, 0)
	b := project("00000000-0000-0000-0000-00000000000b", 1, 900)
	c := project("00000000-0000-0000-0000-00000000000c", 1, 0)

	policy := OldestFirst{}

	assert.Nil(t, policy.Select(nil, []*entity.Project{}))
	assert.Same(t, b, policy.Select(nil, []*entity.Project{a, c, b}))
}
