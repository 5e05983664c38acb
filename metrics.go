package majorana

import (
	"sync"
)

/*
Metrics counts what an engine (or a pool of engines) has done. The counters
are guarded by a mutex so a pool can merge per-trial metrics while workers
are still running.
*/
type Metrics struct {
	mu sync.RWMutex

	Measurements   int64
	RandomOutcomes int64
	FixedOutcomes  int64
	ReadoutFlips   int64
	DephasingHits  int64
	PoisonEvents   int64
	Corrections    int64
	IdleSteps      int64
	Gadgets        map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		Gadgets: make(map[string]int64),
	}
}

func (m *Metrics) recordMeasurement(random, flipped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Measurements++
	if random {
		m.RandomOutcomes++
	} else {
		m.FixedOutcomes++
	}
	if flipped {
		m.ReadoutFlips++
	}
}

func (m *Metrics) recordIdle(dephased int, poisoned bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IdleSteps++
	m.DephasingHits += int64(dephased)
	if poisoned {
		m.PoisonEvents++
	}
}

func (m *Metrics) recordCorrection() {
	m.mu.Lock()
	m.Corrections++
	m.mu.Unlock()
}

func (m *Metrics) recordGadget(name string) {
	m.mu.Lock()
	m.Gadgets[name]++
	m.mu.Unlock()
}

func (m *Metrics) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Measurements, m.RandomOutcomes, m.FixedOutcomes = 0, 0, 0
	m.ReadoutFlips, m.DephasingHits, m.PoisonEvents = 0, 0, 0
	m.Corrections, m.IdleSteps = 0, 0
	m.Gadgets = make(map[string]int64)
}

// Merge adds the counters of other into m.
func (m *Metrics) Merge(other *Metrics) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Measurements += other.Measurements
	m.RandomOutcomes += other.RandomOutcomes
	m.FixedOutcomes += other.FixedOutcomes
	m.ReadoutFlips += other.ReadoutFlips
	m.DephasingHits += other.DephasingHits
	m.PoisonEvents += other.PoisonEvents
	m.Corrections += other.Corrections
	m.IdleSteps += other.IdleSteps

	for name, count := range other.Gadgets {
		m.Gadgets[name] += count
	}
}

// ExportMetrics returns a flat snapshot of the counters.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gadgets := make(map[string]int64, len(m.Gadgets))
	for name, count := range m.Gadgets {
		gadgets[name] = count
	}

	return map[string]interface{}{
		"measurements":    m.Measurements,
		"random_outcomes": m.RandomOutcomes,
		"fixed_outcomes":  m.FixedOutcomes,
		"readout_flips":   m.ReadoutFlips,
		"dephasing_hits":  m.DephasingHits,
		"poison_events":   m.PoisonEvents,
		"corrections":     m.Corrections,
		"idle_steps":      m.IdleSteps,
		"gadgets":         gadgets,
	}
}
