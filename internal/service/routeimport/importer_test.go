// internal/service/routeimport/importer_test.go

package routeimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lbs/internal/domain/route"
	"lbs/internal/domain/spatial"
)

// fakeRouteStore upserts by name like the real storage layer
type fakeRouteStore struct {
	routes map[string]orb.LineString
}

func newFakeRouteStore() *fakeRouteStore {
	return &fakeRouteStore{routes: map[string]orb.LineString{}}
}

func (f *fakeRouteStore) Upsert(ctx context.Context, name string, path orb.LineString) (bool, error) {
	_, exists := f.routes[name]
	f.routes[name] = path
	return !exists, nil
}

func (f *fakeRouteStore) Get(ctx context.Context, id string) (*route.Route, error) {
	return nil, spatial.ErrNotFound
}

func (f *fakeRouteStore) List(ctx context.Context) ([]route.Route, error) { return nil, nil }

func (f *fakeRouteStore) DeleteAll(ctx context.Context) (int64, error) {
	deleted := int64(len(f.routes))
	f.routes = map[string]orb.LineString{}
	return deleted, nil
}

func (f *fakeRouteStore) IntersectingArea(ctx context.Context, areaID string) ([]route.Route, error) {
	return nil, nil
}

func (f *fakeRouteStore) WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64) ([]route.Route, error) {
	return nil, nil
}

func writeGeoJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const lineStringDoc = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"Name": "River Walk"},
			"geometry": {
				"type": "LineString",
				"coordinates": [[13.4, 52.5], [13.41, 52.51], [13.42, 52.52]]
			}
		}
	]
}`

const multiLineStringDoc = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "Canal Loop"},
			"geometry": {
				"type": "MultiLineString",
				"coordinates": [
					[[13.4, 52.5], [13.41, 52.51]],
					[[13.42, 52.52], [13.43, 52.53], [13.44, 52.54]],
					[[13.45, 52.55]]
				]
			}
		}
	]
}`

const pointDoc = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"Name": "Lonely Point"},
			"geometry": {"type": "Point", "coordinates": [13.4, 52.5]}
		}
	]
}`

const unnamedDoc = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "LineString",
				"coordinates": [[13.4, 52.5], [13.41, 52.51]]
			}
		}
	]
}`

func newTestImporter(dir string, store route.Store) *Importer {
	return NewImporter(store, zap.NewNop(), Config{
		DataDir: dir,
		Glob:    "routes_*.geojson",
	})
}

func TestImporterRun(t *testing.T) {
	ctx := context.Background()

	t.Run("imports a named linestring feature", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "walk.geojson", lineStringDoc)
		store := newFakeRouteStore()

		summary, err := newTestImporter(dir, store).Run(ctx, []string{path}, false)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Imported)
		assert.Equal(t, 0, summary.Updated)
		require.Contains(t, store.routes, "River Walk")
		assert.Len(t, store.routes["River Walk"], 3)
	})

	t.Run("splits multi-part geometries into named segments", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "canal.geojson", multiLineStringDoc)
		store := newFakeRouteStore()

		summary, err := newTestImporter(dir, store).Run(ctx, []string{path}, false)
		require.NoError(t, err)

		// Two usable parts imported, the single-vertex part skipped
		assert.Equal(t, 2, summary.Imported)
		assert.Equal(t, 1, summary.Skipped)
		assert.Contains(t, store.routes, "Canal Loop (Segment 1)")
		assert.Contains(t, store.routes, "Canal Loop (Segment 2)")
	})

	t.Run("reimporting updates instead of duplicating", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "walk.geojson", lineStringDoc)
		store := newFakeRouteStore()
		importer := newTestImporter(dir, store)

		first, err := importer.Run(ctx, []string{path}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Imported)

		second, err := importer.Run(ctx, []string{path}, false)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Imported)
		assert.Equal(t, 1, second.Updated)
		assert.Len(t, store.routes, 1)
	})

	t.Run("derives a name when the feature has none", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "harbor_loop.geojson", unnamedDoc)
		store := newFakeRouteStore()

		_, err := newTestImporter(dir, store).Run(ctx, []string{path}, false)
		require.NoError(t, err)
		assert.Contains(t, store.routes, "Harbor Loop Feature 1")
	})

	t.Run("fallback name title-cases uppercase stems", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "RIVERSIDE_trail.geojson", unnamedDoc)
		store := newFakeRouteStore()

		_, err := newTestImporter(dir, store).Run(ctx, []string{path}, false)
		require.NoError(t, err)
		assert.Contains(t, store.routes, "Riverside Trail Feature 1")
	})

	t.Run("fails when nothing usable is imported", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "points.geojson", pointDoc)
		store := newFakeRouteStore()

		_, err := newTestImporter(dir, store).Run(ctx, []string{path}, false)
		assert.EqualError(t, err, "no routes were imported")
	})

	t.Run("unsupported geometry is skipped but counted", func(t *testing.T) {
		dir := t.TempDir()
		p1 := writeGeoJSON(t, dir, "points.geojson", pointDoc)
		p2 := writeGeoJSON(t, dir, "walk.geojson", lineStringDoc)
		store := newFakeRouteStore()

		summary, err := newTestImporter(dir, store).Run(ctx, []string{p1, p2}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Imported)
		assert.Equal(t, 1, summary.Skipped)
	})

	t.Run("explicit missing path is a hard error", func(t *testing.T) {
		dir := t.TempDir()
		store := newFakeRouteStore()

		_, err := newTestImporter(dir, store).Run(ctx, []string{"does_not_exist.geojson"}, false)
		assert.Error(t, err)
	})

	t.Run("bare file names resolve against the data directory", func(t *testing.T) {
		dir := t.TempDir()
		writeGeoJSON(t, dir, "walk.geojson", lineStringDoc)
		store := newFakeRouteStore()

		summary, err := newTestImporter(dir, store).Run(ctx, []string{"walk.geojson"}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Imported)
	})

	t.Run("defaults to the configured glob", func(t *testing.T) {
		dir := t.TempDir()
		writeGeoJSON(t, dir, "routes_a.geojson", lineStringDoc)
		writeGeoJSON(t, dir, "unrelated.geojson", multiLineStringDoc)
		store := newFakeRouteStore()

		summary, err := newTestImporter(dir, store).Run(ctx, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Files)
		assert.Equal(t, 1, summary.Imported)
	})

	t.Run("empty glob result is a hard error", func(t *testing.T) {
		dir := t.TempDir()
		store := newFakeRouteStore()

		_, err := newTestImporter(dir, store).Run(ctx, nil, false)
		assert.Error(t, err)
	})

	t.Run("reset clears existing routes first", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "walk.geojson", lineStringDoc)
		store := newFakeRouteStore()
		store.routes["Old Route"] = orb.LineString{{0, 0}, {1, 1}}

		summary, err := newTestImporter(dir, store).Run(ctx, []string{path}, true)
		require.NoError(t, err)

		assert.Equal(t, int64(1), summary.Deleted)
		assert.NotContains(t, store.routes, "Old Route")
		assert.Contains(t, store.routes, "River Walk")
	})

	t.Run("a malformed document is skipped, not fatal", func(t *testing.T) {
		dir := t.TempDir()
		broken := writeGeoJSON(t, dir, "broken.geojson", "{not json")
		walk := writeGeoJSON(t, dir, "walk.geojson", lineStringDoc)
		store := newFakeRouteStore()

		summary, err := newTestImporter(dir, store).Run(ctx, []string{broken, walk}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Imported)
		assert.Equal(t, 1, summary.Skipped)
	})

	t.Run("a run with only malformed input fails", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGeoJSON(t, dir, "broken.geojson", "{not json")
		store := newFakeRouteStore()

		_, err := newTestImporter(dir, store).Run(ctx, []string{path}, false)
		assert.EqualError(t, err, "no routes were imported")
	})
}
