package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/adapters/cache"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/platform/httpx"
	"itinerary-builder-service/internal/platform/obs"
)

// Nominatim caps free usage; one result page is plenty for planning.
const defaultSearchLimit = 5

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	Class       string `json:"class"`
}

// NominatimGeocoder resolves free-text queries against a Nominatim
// instance.
//
// It coordinates:
//   - Query normalization
//   - Persistent result caching
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type NominatimGeocoder struct {
	client  *httpx.Client
	baseURL string
	cache   *cache.SQLGeocodeCache
	log     *zap.Logger
}

func NewNominatimGeocoder(
	baseURL string,
	userAgent string,
	timeout time.Duration,
	geocodeCache *cache.SQLGeocodeCache,
	log *zap.Logger,
) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if userAgent == "" {
		// Nominatim rejects requests without an identifying agent.
		userAgent = "itinerary-builder/1.0"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NominatimGeocoder{
		client:  httpx.New(timeout, userAgent, ""),
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   geocodeCache,
		log:     log,
	}
}

// Search implements ports.Geocoder. Responses are cached by normalized
// query; a full page is always fetched upstream so the cache can serve any
// smaller limit later.
func (g *NominatimGeocoder) Search(ctx context.Context, query string, limit int) (_ []domain.Place, err error) {
	defer obs.Time(g.log, "nominatim.Search")(&err)

	query = normalizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("nominatim search: %w: empty query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if g.cache != nil {
		places, err := g.cache.Get(ctx, query)
		switch {
		case err == nil:
			return capPlaces(places, limit), nil
		case !errors.Is(err, domain.ErrNotFound):
			g.log.Warn("geocode cache read failed", zap.Error(err))
		}
	}

	fetchLimit := limit
	if fetchLimit < defaultSearchLimit {
		fetchLimit = defaultSearchLimit
	}
	places, err := g.fetch(ctx, query, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("nominatim search %q: %w", query, err)
	}

	if g.cache != nil && len(places) > 0 {
		if err := g.cache.Put(ctx, query, places); err != nil {
			g.log.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return capPlaces(places, limit), nil
}

func (g *NominatimGeocoder) fetch(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	endpoint := g.baseURL + "/search"

	makeReq := func() (*http.Request, error) {
		req, err := g.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", strconv.Itoa(limit))
		q.Set("addressdetails", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	resp, err := g.client.DoWithRetry(ctx, makeReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	places := make([]domain.Place, 0, len(decoded))
	for _, item := range decoded {
		coords, ok := parseCoords(item.Lat, item.Lon)
		if !ok {
			g.log.Debug("dropping result without usable coordinates",
				zap.String("display_name", item.DisplayName))
			continue
		}
		places = append(places, domain.Place{
			Name:    displayPrefix(item.DisplayName),
			Address: item.DisplayName,
			Coords:  coords,
			Kind:    item.Type,
			Class:   item.Class,
			PlaceID: strconv.FormatInt(item.PlaceID, 10),
		})
	}
	return places, nil
}

// normalizeQuery collapses whitespace so cache keys stay consistent.
func normalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// displayPrefix is the human-facing name: everything before the first comma
// of a Nominatim display_name.
func displayPrefix(displayName string) string {
	name, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(name)
}

func parseCoords(latStr, lonStr string) (domain.Coordinates, bool) {
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		return domain.Coordinates{}, false
	}
	c := domain.Coordinates{Lat: lat, Lon: lon}
	return c, c.Valid()
}

func capPlaces(places []domain.Place, limit int) []domain.Place {
	if len(places) > limit {
		return places[:limit]
	}
	return places
}
