// internal/service/routeimport/importer.go

package routeimport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lbs/internal/domain/route"
)

// Config holds importer defaults
type Config struct {
	// DataDir is searched with Glob when no explicit paths are given
	DataDir string
	Glob    string
}

// Summary is the aggregated outcome of a run
type Summary struct {
	Files    int   `json:"files"`
	Imported int   `json:"imported"`
	Updated  int   `json:"updated"`
	Skipped  int   `json:"skipped"`
	Deleted  int64 `json:"deleted"`
}

// Importer loads route GeoJSON documents into the route store.
// Features are upserted by name, so reimporting a file updates
// geometry instead of duplicating records. Malformed documents and
// features are skipped and counted; the run fails hard only when no
// usable input exists at all.
type Importer struct {
	routes route.Store
	logger *zap.Logger
	config Config
}

// NewImporter creates a new route importer
func NewImporter(routes route.Store, logger *zap.Logger, config Config) *Importer {
	return &Importer{
		routes: routes,
		logger: logger,
		config: config,
	}
}

// Run imports the given GeoJSON files, or the default glob when none
// are given. Reset clears all routes first.
func (im *Importer) Run(ctx context.Context, paths []string, reset bool) (*Summary, error) {
	files, err := im.resolveFiles(paths)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Files: len(files)}

	if reset {
		deleted, err := im.routes.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("reset failed: %w", err)
		}
		summary.Deleted = deleted
		im.logger.Warn("deleted existing routes", zap.Int64("deleted", deleted))
	}

	for _, file := range files {
		if err := im.importFile(ctx, file, summary); err != nil {
			// An unreadable document never aborts the rest of the batch
			summary.Skipped++
			im.logger.Error("skipping geojson document",
				zap.String("file", filepath.Base(file)),
				zap.Error(err),
			)
		}
	}

	if summary.Imported+summary.Updated == 0 {
		return nil, errors.New("no routes were imported")
	}

	im.logger.Info("route import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
	)

	return summary, nil
}

// resolveFiles expands explicit paths or the default glob. A path that
// is explicitly requested but absent is a hard error; an empty glob
// result is too.
func (im *Importer) resolveFiles(paths []string) ([]string, error) {
	if len(paths) > 0 {
		var files []string
		for _, raw := range paths {
			candidate := raw
			if _, err := os.Stat(candidate); err != nil {
				candidate = filepath.Join(im.config.DataDir, raw)
				if _, err := os.Stat(candidate); err != nil {
					return nil, fmt.Errorf("geojson file not found: %s", raw)
				}
			}
			files = append(files, candidate)
		}
		return files, nil
	}

	files, err := filepath.Glob(filepath.Join(im.config.DataDir, im.config.Glob))
	if err != nil {
		return nil, fmt.Errorf("error expanding glob: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no geojson files found to import")
	}

	sort.Strings(files)
	return files, nil
}

func (im *Importer) importFile(ctx context.Context, path string, summary *Summary) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	collection, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}

	if len(collection.Features) == 0 {
		im.logger.Warn("no features found", zap.String("file", filepath.Base(path)))
		return nil
	}

	for index, feature := range collection.Features {
		im.importFeature(ctx, path, index+1, feature, summary)
	}

	return nil
}

// importFeature imports one feature, splitting multi-part geometries
// into separately named segments
func (im *Importer) importFeature(ctx context.Context, path string, index int, feature *geojson.Feature, summary *Summary) {
	baseName := featureName(path, index, feature)

	var segments []orb.LineString
	switch geom := feature.Geometry.(type) {
	case orb.LineString:
		segments = []orb.LineString{geom}
	case orb.MultiLineString:
		for _, part := range geom {
			if len(part) >= 2 {
				segments = append(segments, part)
			} else {
				summary.Skipped++
			}
		}
	default:
		im.logger.Warn("unsupported geometry, skipping",
			zap.String("file", filepath.Base(path)),
			zap.Int("feature", index),
			zap.String("type", geometryType(feature.Geometry)),
		)
		summary.Skipped++
		return
	}

	if len(segments) == 0 {
		summary.Skipped++
		return
	}

	multi := len(segments) > 1
	for segIndex, segment := range segments {
		if len(segment) < 2 {
			summary.Skipped++
			continue
		}

		name := baseName
		if multi {
			name = fmt.Sprintf("%s (Segment %d)", baseName, segIndex+1)
		}

		created, err := im.routes.Upsert(ctx, name, segment)
		if err != nil {
			im.logger.Error("error importing route segment",
				zap.String("name", name),
				zap.Error(err),
			)
			summary.Skipped++
			continue
		}

		if created {
			summary.Imported++
			im.logger.Info("created route", zap.String("name", name))
		} else {
			summary.Updated++
			im.logger.Info("updated route", zap.String("name", name))
		}
	}
}

// titleCaser renders the file-stem fallback names
var titleCaser = cases.Title(language.English)

// featureName resolves a feature's base name from its properties,
// falling back to one derived from the file name and feature position
func featureName(path string, index int, feature *geojson.Feature) string {
	for _, key := range []string{"Name", "name"} {
		if value, ok := feature.Properties[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ReplaceAll(stem, "_", " ")
	return fmt.Sprintf("%s Feature %d", titleCaser.String(stem), index)
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "none"
	}
	return g.GeoJSONType()
}
