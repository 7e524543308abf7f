// internal/adapter/overpass/client.go

package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultURL is the public Overpass API interpreter endpoint
const DefaultURL = "https://overpass-api.de/api/interpreter"

// Element is one OSM element from an Overpass response. Nodes carry
// lat/lon directly; ways and relations carry a precomputed center
// point when the query asks for one.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the representative point of a way or relation
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinate resolves the element's representative point, preferring a
// direct node coordinate over a computed center. The second return is
// false when neither is present.
func (e Element) Coordinate() (lat, lon float64, ok bool) {
	if e.Lat != nil && e.Lon != nil {
		return *e.Lat, *e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}

// response is the envelope of an Overpass JSON reply
type response struct {
	Elements []Element `json:"elements"`
}

// Client fetches amenity elements from the Overpass API
type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	Timeout     time.Duration
	MaxElements int
}

// NewClient creates a new Overpass client. The timeout bounds both the
// server-side query and, with headroom, the HTTP request itself.
func NewClient(baseURL string, timeout time.Duration, maxElements int) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxElements <= 0 {
		maxElements = 500
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout + 10*time.Second,
		},
		BaseURL:     baseURL,
		Timeout:     timeout,
		MaxElements: maxElements,
	}
}

// FetchAmenities queries the bounding box (south, west, north, east)
// for every tag family the category mapping covers and returns the raw
// elements
func (c *Client) FetchAmenities(ctx context.Context, south, west, north, east float64) ([]Element, error) {
	query := c.buildQuery(south, west, north, east)

	form := url.Values{"data": []string{query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "lbs-import/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Overpass API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Overpass API returned status code %d", resp.StatusCode)
	}

	var overpassResp response
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
	}

	return overpassResp.Elements, nil
}

// buildQuery renders the Overpass QL query for one bounding box. The
// tag families mirror the ingestion category mapping; `out center`
// makes ways and relations carry a representative point.
func (c *Client) buildQuery(south, west, north, east float64) string {
	bbox := fmt.Sprintf("%f,%f,%f,%f", south, west, north, east)
	timeoutSec := int(c.Timeout.Seconds())

	return fmt.Sprintf(`
[out:json][timeout:%d];
(
  node["amenity"~"cafe|restaurant|fast_food|ice_cream|pub|bar"](%[2]s);
  way["amenity"~"cafe|restaurant|fast_food|ice_cream|pub|bar"](%[2]s);

  node["shop"~"convenience|supermarket|department_store|mall"](%[2]s);
  way["shop"~"convenience|supermarket|department_store|mall"](%[2]s);
  node["amenity"="marketplace"](%[2]s);

  node["amenity"~"fitness_centre|gym"](%[2]s);
  way["amenity"~"fitness_centre|gym"](%[2]s);
  node["sport"="fitness"](%[2]s);
  way["sport"="fitness"](%[2]s);

  node["amenity"~"atm|bank"](%[2]s);

  node["leisure"~"park|garden|recreation_ground"](%[2]s);
  way["leisure"~"park|garden|recreation_ground"](%[2]s);
);
out center %[3]d;
`, timeoutSec, bbox, c.MaxElements)
}
