// internal/service/osmingest/pipeline.go

package osmingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"lbs/internal/adapter/overpass"
	"lbs/internal/domain/amenity"
	"lbs/internal/domain/area"
)

// SourceRefPrefix marks amenities created by this pipeline. Reset mode
// deletes only amenities carrying it, so directly created records are
// never touched.
const SourceRefPrefix = "osm_"

// Fetcher fetches candidate elements for a bounding box
type Fetcher interface {
	FetchAmenities(ctx context.Context, south, west, north, east float64) ([]overpass.Element, error)
}

// Publisher publishes pipeline events. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Config holds pipeline tuning
type Config struct {
	// RequestDelay is the enforced pause between per-area fetches,
	// out of courtesy to the external API's rate limits
	RequestDelay time.Duration

	// SummaryTopic is the event subject the final summary is published
	// on when a publisher is configured
	SummaryTopic string
}

// Options selects what a single run does
type Options struct {
	// AreaName restricts the run to areas whose name contains this
	// fragment, case-insensitively
	AreaName string

	// Reset deletes all previously ingested amenities before the run
	Reset bool

	// DryRun classifies every element without persisting anything
	DryRun bool
}

// AreaSummary is the outcome for one area
type AreaSummary struct {
	AreaID   string `json:"area_id"`
	AreaName string `json:"area_name"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
	Failed   bool   `json:"failed"`
	Error    string `json:"error,omitempty"`
}

// Summary is the aggregated outcome of a run
type Summary struct {
	DryRun       bool          `json:"dry_run"`
	ResetDeleted int64         `json:"reset_deleted"`
	Areas        []AreaSummary `json:"areas"`
	Created      int           `json:"created"`
	Skipped      int           `json:"skipped"`
	FailedAreas  int           `json:"failed_areas"`
}

// element outcomes; rejections are counted but otherwise silent
type outcome int

const (
	outcomeCreated outcome = iota
	outcomeSkipped
	outcomeRejected
)

// Pipeline imports amenities from the Overpass API for every stored
// area. Areas are processed sequentially with an enforced pause
// between fetches; one area's failure never aborts the batch.
type Pipeline struct {
	areas     area.Store
	amenities amenity.Store
	client    Fetcher
	events    Publisher
	logger    *zap.Logger
	config    Config
}

// NewPipeline creates a new ingestion pipeline. events may be nil, in
// which case no summary event is published.
func NewPipeline(areas area.Store, amenities amenity.Store, client Fetcher, events Publisher, logger *zap.Logger, config Config) *Pipeline {
	return &Pipeline{
		areas:     areas,
		amenities: amenities,
		client:    client,
		events:    events,
		logger:    logger,
		config:    config,
	}
}

// Run executes one ingestion batch and returns its summary
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	areas, err := p.resolveAreas(ctx, opts.AreaName)
	if err != nil {
		return nil, err
	}

	summary := &Summary{DryRun: opts.DryRun}

	if opts.Reset && !opts.DryRun {
		deleted, err := p.amenities.DeleteBySourceRefPrefix(ctx, SourceRefPrefix)
		if err != nil {
			return nil, fmt.Errorf("reset failed: %w", err)
		}
		summary.ResetDeleted = deleted
		p.logger.Warn("deleted previously ingested amenities", zap.Int64("deleted", deleted))
	}

	for i, ar := range areas {
		p.logger.Info("processing area", zap.String("area", ar.Name))

		created, skipped, err := p.importArea(ctx, ar, opts.DryRun)
		areaSummary := AreaSummary{
			AreaID:   ar.ID,
			AreaName: ar.Name,
			Created:  created,
			Skipped:  skipped,
		}

		if err != nil {
			// Partial-failure isolation: report and move on
			areaSummary.Failed = true
			areaSummary.Error = err.Error()
			summary.FailedAreas++
			p.logger.Error("area import failed", zap.String("area", ar.Name), zap.Error(err))
		} else {
			summary.Created += created
			summary.Skipped += skipped
			p.logger.Info("area import done",
				zap.String("area", ar.Name),
				zap.Int("created", created),
				zap.Int("skipped", skipped),
			)
		}

		summary.Areas = append(summary.Areas, areaSummary)

		if i < len(areas)-1 {
			if err := p.pause(ctx); err != nil {
				return summary, err
			}
		}
	}

	p.logger.Info("ingestion finished",
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed_areas", summary.FailedAreas),
	)

	p.publishSummary(summary)

	return summary, nil
}

func (p *Pipeline) resolveAreas(ctx context.Context, nameFragment string) ([]area.Area, error) {
	var (
		areas []area.Area
		err   error
	)

	if nameFragment != "" {
		areas, err = p.areas.ListByName(ctx, nameFragment)
	} else {
		areas, err = p.areas.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing areas: %w", err)
	}

	if len(areas) == 0 {
		if nameFragment != "" {
			return nil, fmt.Errorf("no area found matching %q", nameFragment)
		}
		return nil, errors.New("no areas in database, load areas first")
	}

	return areas, nil
}

// importArea fetches and classifies every candidate element for one
// area. The returned error marks the whole area as failed.
func (p *Pipeline) importArea(ctx context.Context, ar area.Area, dryRun bool) (created, skipped int, err error) {
	bound := ar.Boundary.Bound()
	west, south := bound.Min.Lon(), bound.Min.Lat()
	east, north := bound.Max.Lon(), bound.Max.Lat()

	elements, err := p.client.FetchAmenities(ctx, south, west, north, east)
	if err != nil {
		return 0, 0, err
	}
	p.logger.Debug("fetched elements", zap.String("area", ar.Name), zap.Int("count", len(elements)))

	for _, el := range elements {
		result, err := p.processElement(ctx, el, ar, dryRun)
		if err != nil {
			return created, skipped, err
		}

		switch result {
		case outcomeCreated:
			created++
		case outcomeSkipped:
			skipped++
		}
	}

	return created, skipped, nil
}

// processElement decides the fate of one candidate element: created,
// skipped as a duplicate, or rejected. Rejections are silent counts;
// only storage failures become errors.
func (p *Pipeline) processElement(ctx context.Context, el overpass.Element, ar area.Area, dryRun bool) (outcome, error) {
	lat, lon, ok := el.Coordinate()
	if !ok {
		return outcomeRejected, nil
	}

	// The bounding-box fetch is coarser than the polygon, so elements
	// inside the box but outside the true boundary must be discarded
	// here. Boundary points count as inside.
	point := orb.Point{lon, lat}
	if !planar.PolygonContains(ar.Boundary, point) {
		return outcomeRejected, nil
	}

	category, ok := CategoryFor(el.Tags)
	if !ok {
		return outcomeRejected, nil
	}

	name := strings.TrimSpace(el.Tags["name"])
	if name == "" {
		return outcomeRejected, nil
	}
	name = truncate(name, amenity.MaxNameLen)

	ref := sourceRef(el)

	if dryRun {
		exists, err := p.amenities.ExistsBySourceRef(ctx, ref)
		if err != nil {
			return outcomeRejected, err
		}
		if exists {
			return outcomeSkipped, nil
		}
		p.logger.Info("would create amenity",
			zap.String("name", name),
			zap.String("category", string(category)),
		)
		return outcomeCreated, nil
	}

	err := p.amenities.Create(ctx, amenity.Amenity{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Location:    point,
		Description: BuildDescription(el.Tags),
		SourceRef:   ref,
	})
	if err != nil {
		// The storage layer's uniqueness constraint is the duplicate
		// check; a violation is the skip signal.
		if errors.Is(err, amenity.ErrDuplicateSourceRef) {
			return outcomeSkipped, nil
		}
		return outcomeRejected, err
	}

	return outcomeCreated, nil
}

// pause waits the configured delay between area fetches, or returns
// early when the run is cancelled
func (p *Pipeline) pause(ctx context.Context) error {
	if p.config.RequestDelay <= 0 {
		return nil
	}

	p.logger.Debug("pausing before next fetch", zap.Duration("delay", p.config.RequestDelay))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.config.RequestDelay):
		return nil
	}
}

func (p *Pipeline) publishSummary(summary *Summary) {
	if p.events == nil || p.config.SummaryTopic == "" {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		p.logger.Error("error marshaling ingest summary", zap.Error(err))
		return
	}

	if err := p.events.Publish(p.config.SummaryTopic, data); err != nil {
		p.logger.Error("error publishing ingest summary", zap.Error(err))
	}
}

// sourceRef builds the stable external-source reference for an element
func sourceRef(el overpass.Element) string {
	kind := el.Type
	if kind == "" {
		kind = "node"
	}
	return fmt.Sprintf("%s%s_%d", SourceRefPrefix, kind, el.ID)
}
