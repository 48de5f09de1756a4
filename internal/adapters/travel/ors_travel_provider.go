package travel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/adapters/cache"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/platform/httpx"
	"itinerary-builder-service/internal/platform/obs"
)

const defaultORSProfile = "driving-car"

type orsMatrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
	Units     string      `json:"units"`
}

type orsMatrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// ORSTravelProvider implements TravelTimeProvider using the OpenRouteService
// matrix endpoint.
//
// It coordinates:
//   - Persistent travel-time caching per origin row
//   - External API calls with retry/backoff
//   - Cell-by-cell degradation to straight-line estimates
//
// The provider is safe for concurrent use.
type ORSTravelProvider struct {
	client      *httpx.Client
	baseURL     string
	profile     string
	travelCache *cache.SQLTravelCache
	log         *zap.Logger
}

func NewORSTravelProvider(
	baseURL string,
	apiKey string,
	profile string,
	timeout time.Duration,
	travelCache *cache.SQLTravelCache,
	log *zap.Logger,
) *ORSTravelProvider {
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if profile == "" {
		profile = defaultORSProfile
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ORSTravelProvider{
		client:      httpx.New(timeout, "", apiKey),
		baseURL:     strings.TrimRight(baseURL, "/"),
		profile:     profile,
		travelCache: travelCache,
		log:         log,
	}
}

// Matrix implements ports.TravelTimeProvider. Cached cells are served as-is;
// the remainder comes from one matrix call, and any cell the service cannot
// answer falls back to a straight-line estimate. A routing outage therefore
// degrades accuracy, not availability.
func (p *ORSTravelProvider) Matrix(ctx context.Context, coords []domain.Coordinates) (_ [][]int, err error) {
	defer obs.Time(p.log, "ors.Matrix")(&err)

	for i, c := range coords {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: coordinates #%d out of range: %v", domain.ErrInvalidInput, i, c)
		}
	}

	n := len(coords)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}
	if n < 2 {
		return matrix, nil
	}

	keys := make([]string, n)
	for i, c := range coords {
		keys[i] = cache.CoordKey(c)
	}

	type cell struct{ i, j int }
	var misses []cell
	for i := 0; i < n; i++ {
		hits := p.cachedRow(ctx, keys, i)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if m, ok := hits[keys[j]]; ok {
				matrix[i][j] = m
			} else {
				misses = append(misses, cell{i, j})
			}
		}
	}
	if len(misses) == 0 {
		return matrix, nil
	}

	durations, err := p.fetchMatrix(ctx, coords)
	if err != nil {
		p.log.Warn("matrix request failed, estimating remaining legs",
			zap.Int("legs", len(misses)),
			zap.Error(err))
		for _, c := range misses {
			matrix[c.i][c.j] = domain.EstimateLegMinutes(coords[c.i], coords[c.j])
		}
		return matrix, nil
	}

	fresh := make(map[int]map[string]int, n)
	for _, c := range misses {
		cellPtr := durations[c.i][c.j]
		if cellPtr == nil {
			matrix[c.i][c.j] = domain.EstimateLegMinutes(coords[c.i], coords[c.j])
			continue
		}
		minutes := secondsToMinutes(*cellPtr)
		matrix[c.i][c.j] = minutes
		if fresh[c.i] == nil {
			fresh[c.i] = make(map[string]int)
		}
		fresh[c.i][keys[c.j]] = minutes
	}

	if p.travelCache != nil {
		for i, row := range fresh {
			if err := p.travelCache.PutMany(ctx, keys[i], row); err != nil {
				p.log.Warn("travel cache write failed", zap.Error(err))
				break
			}
		}
	}
	return matrix, nil
}

// cachedRow is best-effort: a broken cache must not take route planning
// down with it.
func (p *ORSTravelProvider) cachedRow(ctx context.Context, keys []string, origin int) map[string]int {
	if p.travelCache == nil {
		return nil
	}
	dests := make([]string, 0, len(keys)-1)
	for j, k := range keys {
		if j != origin {
			dests = append(dests, k)
		}
	}
	hits, err := p.travelCache.GetMany(ctx, keys[origin], dests)
	if err != nil {
		p.log.Warn("travel cache read failed", zap.Error(err))
		return nil
	}
	return hits
}

// fetchMatrix posts all locations at once; the service answers with a full
// seconds matrix in the same order.
func (p *ORSTravelProvider) fetchMatrix(ctx context.Context, coords []domain.Coordinates) ([][]*float64, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", p.baseURL, p.profile)

	locations := make([][]float64, 0, len(coords))
	for _, c := range coords {
		locations = append(locations, c.CoordsToList())
	}
	payload, err := json.Marshal(orsMatrixRequest{
		Locations: locations,
		Metrics:   []string{"duration"},
		Units:     "m",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := p.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return p.client.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr orsMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != len(coords) {
		return nil, fmt.Errorf("expected %d duration rows, got %d", len(coords), len(mr.Durations))
	}
	for i, row := range mr.Durations {
		if len(row) != len(coords) {
			return nil, fmt.Errorf("duration row %d has %d cells, expected %d", i, len(row), len(coords))
		}
	}
	return mr.Durations, nil
}

// secondsToMinutes rounds up and keeps every leg at least one minute long,
// so zero-length answers never make two distinct stops look colocated.
func secondsToMinutes(seconds float64) int {
	m := int(math.Ceil(seconds / 60))
	if m < 1 {
		return 1
	}
	return m
}
