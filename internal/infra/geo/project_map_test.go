package geo

import (
	"encoding/json"
	"testing"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *orb.Bound
		wantErr bool
	}{
		{name: "empty", raw: ""},
		{name: "valid", raw: "11.6,-18.1,24.1,-4.3", want: &orb.Bound{Min: orb.Point{11.6, -18.1}, Max: orb.Point{24.1, -4.3}}},
		{name: "too few", raw: "1,2,3", wantErr: true},
		{name: "not a number", raw: "a,2,3,4", wantErr: true},
		{name: "inverted", raw: "10,0,5,1", wantErr: true},
		{name: "out of range", raw: "-200,0,5,1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBBox(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectFeatures(t *testing.T) {
	luanda := &entity.Project{
		ID: uuid.New(), SDGID: 13, Name: "Luanda Mangroves",
		Latitude: floatPtr(-8.84), Longitude: floatPtr(13.23),
		TotalInvested: decimal.NewFromInt(150),
	}
	huila := &entity.Project{
		ID: uuid.New(), SDGID: 6, Name: "Huila Wells",
		Latitude: floatPtr(-14.92), Longitude: floatPtr(13.49),
		TotalInvested: decimal.NewFromInt(10),
	}
	unlocated := &entity.Project{ID: uuid.New(), SDGID: 7, Name: "Remote"}

	display := map[uuid.UUID]*entity.DisplayInvestment{
		huila.ID: {ProjectID: huila.ID, Amount: decimal.NewFromInt(5000)},
	}

	fc := ProjectFeatures([]*entity.Project{luanda, huila, unlocated}, display, nil)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "150.00", fc.Features[0].Properties["invested"])
	assert.Equal(t, "5000.00", fc.Features[1].Properties["invested"])
	assert.Equal(t, orb.Point{13.23, -8.84}, fc.Features[0].Geometry)

	bound := orb.Bound{Min: orb.Point{12, -10}, Max: orb.Point{14, -8}}
	fc = ProjectFeatures([]*entity.Project{luanda, huila}, nil, &bound)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, luanda.ID.String(), fc.Features[0].ID)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"FeatureCollection"`)
}
