package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	rosterOps            map[string]int
	versionConflicts     int
	matchesCompleted     int
	progressionDurations []float64
	progressionFailed    int
	eventsPublished      int
	eventsFailed         int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		rosterOps:            make(map[string]int),
		progressionDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRosterOp(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosterOps[op]++
}

func (m *Mock) IncVersionConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versionConflicts++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) ObserveProgressionDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressionDurations = append(m.progressionDurations, duration)
}

func (m *Mock) IncProgressionFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressionFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RosterOps returns the count recorded for a single operation label.
func (m *Mock) RosterOps(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterOps[op]
}

// VersionConflicts returns the number of times IncVersionConflicts was called.
func (m *Mock) VersionConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versionConflicts
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// ProgressionFailed returns the number of times IncProgressionFailed was called.
func (m *Mock) ProgressionFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progressionFailed
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

// EventsFailed returns the number of times IncEventsFailed was called.
func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}
