package places

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// MockHoursProvider serves opening hours from a name-keyed table, falling
// back to Default and then to an always-open window. It never fails, like
// the port it stands in for.
type MockHoursProvider struct {
	Windows map[string]domain.TimeWindow
	Default domain.TimeWindow
}

func (p *MockHoursProvider) OpeningHours(ctx context.Context, at domain.Coordinates, name string) domain.TimeWindow {
	if w, ok := p.Windows[name]; ok {
		return w
	}
	if p.Default != (domain.TimeWindow{}) {
		return p.Default
	}
	return domain.FullDay()
}
