package metrics

import (
	"sync"
	"time"

	"github.com/plant-keeper/sensorsim/log"
)

type Option func(m *InMem)

func WithRetention(dur time.Duration) Option {
	return func(m *InMem) {
		m.retentionDuration = dur
	}
}

type Value struct {
	T time.Time
	V float64
}

// InMem keeps outcome counters and gauge timelines for the life of the process.
// Old gauge values are dropped on write once they fall out of the retention window.
type InMem struct {
	mu            sync.RWMutex
	GaugeTimeLine map[string][]Value
	Counters      map[string]int

	retentionDuration time.Duration
	now               func() time.Time
}

func New(opts ...Option) *InMem {
	m := &InMem{
		GaugeTimeLine: make(map[string][]Value),
		Counters:      make(map[string]int),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.retentionDuration == 0 {
		log.Info.Println("retention isn't setted up")
	}

	return m
}

func (m *InMem) Inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Counters[key]++
}

func (m *InMem) Count(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Counters[key]
}

func (m *InMem) Gauge(key string, val float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.Debg.Printf("gauge %s: %v", key, val)

	now := m.now()
	m.GaugeTimeLine[key] = append(m.cut(m.GaugeTimeLine[key], now), Value{T: now, V: val})
}

// Mean returns the average of the key's values over the last dur, or 0 if there are none
func (m *InMem) Mean(key string, dur time.Duration) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := m.now().Add(-dur)
	var sum float64
	var n int
	for _, v := range m.GaugeTimeLine[key] {
		if !v.T.Before(start) {
			sum += v.V
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / float64(n)
}

// cut drops values older than the retention period
func (m *InMem) cut(vs []Value, now time.Time) []Value {
	if m.retentionDuration == 0 {
		return vs
	}

	cutoff := now.Add(-m.retentionDuration)
	i := 0
	for i < len(vs) && !vs[i].T.After(cutoff) {
		i++
	}

	if i > 0 {
		log.Debg.Printf("cleaner removed %d gauges by retention policy", i)
	}

	return vs[i:]
}
