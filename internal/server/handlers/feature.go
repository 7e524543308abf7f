// internal/server/handlers/feature.go

package handlers

import (
	"github.com/paulmach/orb/geojson"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/area"
	"lbs/internal/domain/route"
)

// Spatial responses are GeoJSON feature collections: every feature
// carries the entity's geometry in longitude-latitude order plus its
// non-geometric attributes as properties.

func amenityCollection(amenities []amenity.Amenity) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for i := range amenities {
		collection.Append(amenityFeature(&amenities[i]))
	}
	return collection
}

func amenityFeature(a *amenity.Amenity) *geojson.Feature {
	feature := geojson.NewFeature(a.Location)
	feature.ID = a.ID
	feature.Properties = geojson.Properties{
		"id":          a.ID,
		"name":        a.Name,
		"category":    string(a.Category),
		"description": a.Description,
	}
	return feature
}

func areaCollection(areas []area.Area) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for i := range areas {
		collection.Append(areaFeature(&areas[i]))
	}
	return collection
}

func areaFeature(a *area.Area) *geojson.Feature {
	feature := geojson.NewFeature(a.Boundary)
	feature.ID = a.ID
	feature.Properties = geojson.Properties{
		"id":   a.ID,
		"name": a.Name,
	}
	return feature
}

func routeCollection(routes []route.Route) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for i := range routes {
		collection.Append(routeFeature(&routes[i]))
	}
	return collection
}

func routeFeature(r *route.Route) *geojson.Feature {
	feature := geojson.NewFeature(r.Path)
	feature.ID = r.ID
	feature.Properties = geojson.Properties{
		"id":   r.ID,
		"name": r.Name,
	}
	return feature
}
