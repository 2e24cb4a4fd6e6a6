package geofence

import (
	"encoding/json"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ParseGeoJSONBoundary extracts boundary vertices from a GeoJSON document
// (FeatureCollection, Feature or bare geometry). The outer ring of the first
// polygon wins, otherwise the first point is returned.
func ParseGeoJSONBoundary(document []byte) ([]entity.GeoPoint, error) {
	geometries, err := decodeGeometries(document)
	if err != nil {
		return nil, domainerrors.ErrMarkupParseFailure.WithDetails(err.Error())
	}

	if ring, ok := firstOuterRing(geometries); ok {
		points := make([]entity.GeoPoint, 0, len(ring))
		for _, p := range ring {
			points = append(points, entity.GeoPointFromOrb(p))
		}

		return points, nil
	}

	if p, ok := firstPoint(geometries); ok {
		return []entity.GeoPoint{entity.GeoPointFromOrb(p)}, nil
	}

	return nil, domainerrors.ErrMarkupParseFailure.WithDetails("no polygon or point geometry found")
}

func decodeGeometries(document []byte) ([]orb.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(document, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(document)
		if err != nil {
			return nil, err
		}

		geometries := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geometries = append(geometries, f.Geometry)
			}
		}

		return geometries, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(document)
		if err != nil {
			return nil, err
		}
		if f.Geometry == nil {
			return nil, nil
		}

		return []orb.Geometry{f.Geometry}, nil

	default:
		g, err := geojson.UnmarshalGeometry(document)
		if err != nil {
			return nil, err
		}

		return []orb.Geometry{g.Geometry()}, nil
	}
}

func firstOuterRing(geometries []orb.Geometry) (orb.Ring, bool) {
	for _, g := range geometries {
		switch v := g.(type) {
		case orb.Polygon:
			if len(v) > 0 && len(v[0]) > 0 {
				return v[0], true
			}
		case orb.MultiPolygon:
			for _, poly := range v {
				if len(poly) > 0 && len(poly[0]) > 0 {
					return poly[0], true
				}
			}
		case orb.Collection:
			if ring, ok := firstOuterRing(v); ok {
				return ring, true
			}
		}
	}

	return nil, false
}

func firstPoint(geometries []orb.Geometry) (orb.Point, bool) {
	for _, g := range geometries {
		switch v := g.(type) {
		case orb.Point:
			return v, true
		case orb.MultiPoint:
			if len(v) > 0 {
				return v[0], true
			}
		case orb.Collection:
			if p, ok := firstPoint(v); ok {
				return p, true
			}
		}
	}

	return orb.Point{}, false
}
