// Package geo renders projects as GeoJSON for the public map.
package geo

import (
	"strconv"
	"strings"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/errors"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"
)

// ParseBBox parses "minLng,minLat,maxLng,maxLat". An empty string means no bound.
func ParseBBox(raw string) (*orb.Bound, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, errors.Errorf("bbox must have 4 comma separated values, got %d", len(parts))
	}

	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bbox value %d", i)
		}
		v[i] = f
	}

	if v[0] < -180 || v[2] > 180 || v[1] < -90 || v[3] > 90 || v[0] > v[2] || v[1] > v[3] {
		return nil, errors.Errorf("bbox out of range: %s", raw)
	}

	bound := orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}

	return &bound, nil
}

// ProjectFeatures turns located projects into point features. Projects without
// coordinates, or outside bound when one is given, are left out. The public
// amount is the display override when set, otherwise the real total.
func ProjectFeatures(projects []*entity.Project, display map[uuid.UUID]*entity.DisplayInvestment, bound *orb.Bound) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, p := range projects {
		if !p.HasLocation() {
			continue
		}

		point := orb.Point{*p.Longitude, *p.Latitude}
		if bound != nil && !bound.Contains(point) {
			continue
		}

		f := geojson.NewFeature(point)
		f.ID = p.ID.String()
		f.Properties["name"] = p.Name
		f.Properties["sdg_id"] = p.SDGID
		f.Properties["location"] = p.Location
		f.Properties["invested"] = publicAmount(p, display).StringFixed(2)
		if p.ImageURL != "" {
			f.Properties["image_url"] = p.ImageURL
		}

		fc.Append(f)
	}

	return fc
}

func publicAmount(p *entity.Project, display map[uuid.UUID]*entity.DisplayInvestment) decimal.Decimal {
	if d, ok := display[p.ID]; ok && d != nil {
		return d.Amount
	}

	return p.TotalInvested
}
