// internal/adapter/storage/geometry.go

package storage

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry values cross the database boundary as GeoJSON text:
// ST_GeomFromGeoJSON on the way in, ST_AsGeoJSON on the way out.

func marshalGeometry(g orb.Geometry) ([]byte, error) {
	raw, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("error marshaling geometry: %w", err)
	}
	return raw, nil
}

func unmarshalPolygon(raw []byte) (orb.Polygon, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling polygon: %w", err)
	}
	poly, ok := g.Geometry().(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("expected polygon geometry, got %s", g.Type)
	}
	return poly, nil
}

func unmarshalLineString(raw []byte) (orb.LineString, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling linestring: %w", err)
	}
	line, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("expected linestring geometry, got %s", g.Type)
	}
	return line, nil
}
