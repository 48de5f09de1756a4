package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/platform/httpx"
)

// Overpass mirrors, fastest first. Each lookup tries them in order and
// settles for the first that answers.
var defaultOverpassInstances = []string{
	"https://overpass.kumi.systems/api/interpreter",
	"https://overpass-api.de/api/interpreter",
}

// Window used when neither keywords nor Overpass yield anything, 9 AM to 9 PM.
var defaultAttractionWindow = domain.TimeWindow{Open: 540, Close: 1260}

// Overpass is slow under load; a lookup is not worth stalling a plan for.
const overpassQueryTimeoutSeconds = 5

var hoursRangeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

// OverpassHoursProvider resolves opening hours from OpenStreetMap's
// Overpass API, with keyword defaults that answer the common venue kinds
// without a network round trip.
//
// Lookups are total: every failure path lands on a fixed default window, so
// a slow or unreachable mirror degrades answers, never availability.
type OverpassHoursProvider struct {
	client    *httpx.Client
	instances []string
	log       *zap.Logger
}

func NewOverpassHoursProvider(instances []string, userAgent string, timeout time.Duration, log *zap.Logger) *OverpassHoursProvider {
	if len(instances) == 0 {
		instances = defaultOverpassInstances
	}
	if userAgent == "" {
		userAgent = "itinerary-builder/1.0"
	}
	if timeout <= 0 {
		timeout = overpassQueryTimeoutSeconds * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OverpassHoursProvider{
		client:    httpx.New(timeout, userAgent, ""),
		instances: instances,
		log:       log,
	}
}

// OpeningHours implements ports.OpeningHoursProvider.
func (p *OverpassHoursProvider) OpeningHours(ctx context.Context, at domain.Coordinates, name string) domain.TimeWindow {
	if w, ok := keywordWindow(name); ok {
		return w
	}

	query := buildOverpassQuery(at, name)
	for _, instance := range p.instances {
		w, found, err := p.queryInstance(ctx, instance, query)
		if err != nil {
			p.log.Debug("overpass instance failed",
				zap.String("instance", instance),
				zap.Error(err))
			continue
		}
		if found {
			return w
		}
		// The mirror answered and knows nothing useful; asking the next
		// one would just repeat the same dataset.
		break
	}

	p.log.Debug("opening hours unresolved, using default window",
		zap.String("name", name))
	return defaultAttractionWindow
}

func (p *OverpassHoursProvider) queryInstance(ctx context.Context, instance, query string) (domain.TimeWindow, bool, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := p.client.NewRequest(ctx, http.MethodPost, instance, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.TimeWindow{}, false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.TimeWindow{}, false, err
	}
	defer resp.Body.Close()

	var decoded struct {
		Elements []struct {
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.TimeWindow{}, false, fmt.Errorf("decode response: %w", err)
	}

	for _, el := range decoded.Elements {
		tag := el.Tags["opening_hours"]
		if tag == "" {
			continue
		}
		if w, ok := parseOpeningHoursTag(tag); ok {
			return w, true, nil
		}
	}
	return domain.TimeWindow{}, false, nil
}

// buildOverpassQuery matches named nodes and ways within 200 m of the point.
func buildOverpassQuery(at domain.Coordinates, name string) string {
	escaped := strings.ReplaceAll(regexp.QuoteMeta(name), `"`, `\"`)
	lat := strconv.FormatFloat(at.Lat, 'f', -1, 64)
	lon := strconv.FormatFloat(at.Lon, 'f', -1, 64)
	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node["name"~"%s",i](around:200,%s,%s);
  way["name"~"%s",i](around:200,%s,%s);
);
out tags;`, overpassQueryTimeoutSeconds, escaped, lat, lon, escaped, lat, lon)
}

// parseOpeningHoursTag extracts a single daily window from an OSM
// opening_hours value. The full syntax is a small language; venues here only
// need the dominant range, so anything beyond the first HH:MM-HH:MM is
// ignored.
func parseOpeningHoursTag(tag string) (domain.TimeWindow, bool) {
	// Any "24" in the tag (24/7, 00:00-24:00) is treated as always open.
	if strings.Contains(tag, "24") {
		return domain.FullDay(), true
	}

	m := hoursRangeRe.FindStringSubmatch(tag)
	if m == nil {
		return domain.TimeWindow{}, false
	}
	openHour, _ := strconv.Atoi(m[1])
	openMin, _ := strconv.Atoi(m[2])
	closeHour, _ := strconv.Atoi(m[3])
	closeMin, _ := strconv.Atoi(m[4])

	w := domain.TimeWindow{
		Open:  openHour*60 + openMin,
		Close: closeHour*60 + closeMin,
	}
	if w.Validate() != nil {
		return domain.TimeWindow{}, false
	}
	return w, true
}

// keywordWindow answers the venue kinds whose hours are predictable enough
// that querying Overpass adds latency without adding information.
func keywordWindow(name string) (domain.TimeWindow, bool) {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "hotel", "hostel", "accommodation"):
		return domain.FullDay(), true
	case containsAny(n, "restaurant", "cafe", "café", "bistro", "eatery", "dining"):
		return domain.TimeWindow{Open: 720, Close: 1320}, true // noon to 10 PM
	case containsAny(n, "museum", "gallery"):
		return domain.TimeWindow{Open: 540, Close: 1080}, true // 9 AM to 6 PM
	case containsAny(n, "church", "cathedral", "basilica", "chapel"):
		return domain.TimeWindow{Open: 360, Close: 1140}, true // 6 AM to 7 PM
	case containsAny(n, "tower", "monument", "arc", "triumph"):
		return domain.TimeWindow{Open: 540, Close: 1140}, true // 9 AM to 7 PM
	}
	return domain.TimeWindow{}, false
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
