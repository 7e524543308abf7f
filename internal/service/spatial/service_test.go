// internal/service/spatial/service_test.go

package spatial

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/area"
	"lbs/internal/domain/route"
	"lbs/internal/domain/spatial"
)

type fakeAreaStore struct {
	areas map[string]area.Area
}

func (f *fakeAreaStore) Create(ctx context.Context, a area.Area) error {
	f.areas[a.ID] = a
	return nil
}

func (f *fakeAreaStore) Get(ctx context.Context, id string) (*area.Area, error) {
	a, ok := f.areas[id]
	if !ok {
		return nil, spatial.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAreaStore) List(ctx context.Context) ([]area.Area, error) {
	var out []area.Area
	for _, a := range f.areas {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAreaStore) ListByName(ctx context.Context, fragment string) ([]area.Area, error) {
	return f.List(ctx)
}

// fakeAmenityStore records the arguments of the last spatial call so
// tests can assert what the engine passed down
type fakeAmenityStore struct {
	nearestLimit  int
	nearestOrigin orb.Point
	nearestAreaID string
	searchFilter  amenity.SearchFilter
	countCategory amenity.Category
}

func (f *fakeAmenityStore) Create(ctx context.Context, a amenity.Amenity) error { return nil }
func (f *fakeAmenityStore) Get(ctx context.Context, id string) (*amenity.Amenity, error) {
	return nil, spatial.ErrNotFound
}
func (f *fakeAmenityStore) List(ctx context.Context, filter amenity.Filter) ([]amenity.Amenity, error) {
	return nil, nil
}
func (f *fakeAmenityStore) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeAmenityStore) ExistsBySourceRef(ctx context.Context, ref string) (bool, error) {
	return false, nil
}
func (f *fakeAmenityStore) DeleteBySourceRefPrefix(ctx context.Context, prefix string) (int64, error) {
	return 0, nil
}

func (f *fakeAmenityStore) Nearest(ctx context.Context, origin orb.Point, limit int, areaID string) ([]amenity.Amenity, error) {
	f.nearestOrigin = origin
	f.nearestLimit = limit
	f.nearestAreaID = areaID
	return []amenity.Amenity{}, nil
}

func (f *fakeAmenityStore) WithinArea(ctx context.Context, areaID string) ([]amenity.Amenity, error) {
	return []amenity.Amenity{}, nil
}

func (f *fakeAmenityStore) WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64, areaID string) ([]amenity.Amenity, error) {
	return []amenity.Amenity{}, nil
}

func (f *fakeAmenityStore) Search(ctx context.Context, filter amenity.SearchFilter) ([]amenity.Amenity, error) {
	f.searchFilter = filter
	return []amenity.Amenity{}, nil
}

func (f *fakeAmenityStore) CountByArea(ctx context.Context, category amenity.Category) ([]amenity.AreaCount, error) {
	f.countCategory = category
	return []amenity.AreaCount{
		{AreaID: "a1", AreaName: "Downtown", Count: 3},
		{AreaID: "a2", AreaName: "Harbor", Count: 0},
	}, nil
}

type fakeRouteStore struct {
	radiusKm float64
}

func (f *fakeRouteStore) Upsert(ctx context.Context, name string, path orb.LineString) (bool, error) {
	return true, nil
}
func (f *fakeRouteStore) Get(ctx context.Context, id string) (*route.Route, error) {
	return nil, spatial.ErrNotFound
}
func (f *fakeRouteStore) List(ctx context.Context) ([]route.Route, error) { return nil, nil }
func (f *fakeRouteStore) DeleteAll(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeRouteStore) IntersectingArea(ctx context.Context, areaID string) ([]route.Route, error) {
	return []route.Route{}, nil
}
func (f *fakeRouteStore) WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64) ([]route.Route, error) {
	f.radiusKm = radiusKm
	return []route.Route{}, nil
}

func newTestService() (*Service, *fakeAreaStore, *fakeAmenityStore, *fakeRouteStore) {
	areas := &fakeAreaStore{areas: map[string]area.Area{
		"a1": {ID: "a1", Name: "Downtown"},
	}}
	amenities := &fakeAmenityStore{}
	routes := &fakeRouteStore{}
	return NewService(areas, amenities, routes, zap.NewNop()), areas, amenities, routes
}

func TestNearestAmenities(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive limit", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.NearestAmenities(ctx, spatial.NearestQuery{Lat: 1, Lng: 2, Limit: 0})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("clamps limit to cap", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.NearestAmenities(ctx, spatial.NearestQuery{Lat: 1, Lng: 2, Limit: 250})
		require.NoError(t, err)
		assert.Equal(t, spatial.MaxLimit, amenities.nearestLimit)
	})

	t.Run("passes origin in lon-lat order", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.NearestAmenities(ctx, spatial.NearestQuery{Lat: 52.5, Lng: 13.4, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, orb.Point{13.4, 52.5}, amenities.nearestOrigin)
	})

	t.Run("unknown area is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.NearestAmenities(ctx, spatial.NearestQuery{Lat: 1, Lng: 2, Limit: 10, AreaID: "missing"})
		assert.ErrorIs(t, err, spatial.ErrNotFound)
	})

	t.Run("known area is passed through", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.NearestAmenities(ctx, spatial.NearestQuery{Lat: 1, Lng: 2, Limit: 10, AreaID: "a1"})
		require.NoError(t, err)
		assert.Equal(t, "a1", amenities.nearestAreaID)
	})
}

func TestAmenitiesWithinArea(t *testing.T) {
	ctx := context.Background()

	t.Run("requires area id", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AmenitiesWithinArea(ctx, "")
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("unknown area is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AmenitiesWithinArea(ctx, "missing")
		assert.ErrorIs(t, err, spatial.ErrNotFound)
	})

	t.Run("known area succeeds", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		result, err := svc.AmenitiesWithinArea(ctx, "a1")
		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestAmenitiesWithinRadius(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects zero radius", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AmenitiesWithinRadius(ctx, spatial.RadiusQuery{Lat: 1, Lng: 2, RadiusKm: 0})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("rejects negative radius", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AmenitiesWithinRadius(ctx, spatial.RadiusQuery{Lat: 1, Lng: 2, RadiusKm: -3})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("positive radius succeeds", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AmenitiesWithinRadius(ctx, spatial.RadiusQuery{Lat: 1, Lng: 2, RadiusKm: 0.5})
		assert.NoError(t, err)
	})
}

func TestSearchAmenities(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects too-short query", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.SearchAmenities(ctx, spatial.SearchQuery{Query: "a"})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("whitespace does not count toward minimum length", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.SearchAmenities(ctx, spatial.SearchQuery{Query: "  a  "})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("two characters is enough", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.SearchAmenities(ctx, spatial.SearchQuery{Query: "ab"})
		require.NoError(t, err)
		assert.Equal(t, "ab", amenities.searchFilter.Query)
	})

	t.Run("defaults the limit", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.SearchAmenities(ctx, spatial.SearchQuery{Query: "coffee"})
		require.NoError(t, err)
		assert.Equal(t, spatial.DefaultSearchLimit, amenities.searchFilter.Limit)
	})

	t.Run("clamps the limit to cap", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.SearchAmenities(ctx, spatial.SearchQuery{Query: "coffee", Limit: 9999})
		require.NoError(t, err)
		assert.Equal(t, spatial.MaxLimit, amenities.searchFilter.Limit)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.SearchAmenities(ctx, spatial.SearchQuery{Query: "coffee", Category: "bowling"})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})
}

func TestRoutesIntersectingArea(t *testing.T) {
	ctx := context.Background()

	t.Run("requires area id", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.RoutesIntersectingArea(ctx, "")
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("unknown area is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.RoutesIntersectingArea(ctx, "missing")
		assert.ErrorIs(t, err, spatial.ErrNotFound)
	})
}

func TestRoutesWithinRadius(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects zero radius", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.RoutesWithinRadius(ctx, spatial.RadiusQuery{Lat: 1, Lng: 2})
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})

	t.Run("passes the radius through", func(t *testing.T) {
		svc, _, _, routes := newTestService()
		_, err := svc.RoutesWithinRadius(ctx, spatial.RadiusQuery{Lat: 1, Lng: 2, RadiusKm: 2.5})
		require.NoError(t, err)
		assert.Equal(t, 2.5, routes.radiusKm)
	})
}

func TestDensity(t *testing.T) {
	ctx := context.Background()

	t.Run("maps counts including empty areas", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		densities, err := svc.Density(ctx, "")
		require.NoError(t, err)
		require.Len(t, densities, 2)
		assert.Equal(t, spatial.AreaDensity{AreaID: "a1", AreaName: "Downtown", Count: 3}, densities[0])
		assert.Equal(t, 0, densities[1].Count)
	})

	t.Run("passes a valid category", func(t *testing.T) {
		svc, _, amenities, _ := newTestService()
		_, err := svc.Density(ctx, "cafe")
		require.NoError(t, err)
		assert.Equal(t, amenity.CategoryCafe, amenities.countCategory)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.Density(ctx, "bowling")
		assert.ErrorIs(t, err, spatial.ErrInvalidQuery)
	})
}
