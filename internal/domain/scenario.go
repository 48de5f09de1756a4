package domain

// ScenarioEntry is one named place of a demo scenario with its visit length.
type ScenarioEntry struct {
	Name     string
	Duration int
}

// Scenario is seeded demo data: a per-city day-trip template whose first
// entry is the lodging and acts as the start position. Scenarios live in
// storage and are loaded through a repository, never compiled in.
type Scenario struct {
	Key         string
	City        string
	StartMinute int
	Entries     []ScenarioEntry
}
