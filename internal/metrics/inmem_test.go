package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) add(d time.Duration) { c.t = c.t.Add(d) }

func newWithClock(opts ...Option) (*InMem, *clock) {
	c := &clock{t: time.Date(2024, 8, 23, 12, 0, 0, 0, time.UTC)}
	m := New(opts...)
	m.now = c.now

	return m, c
}

func TestInMem_Counters(t *testing.T) {
	m := New()

	assert.Equal(t, 0, m.Count("sent"))

	m.Inc("sent")
	m.Inc("sent")
	m.Inc("failed")

	assert.Equal(t, 2, m.Count("sent"))
	assert.Equal(t, 1, m.Count("failed"))
	assert.Equal(t, 0, m.Count("errored"))
}

func TestInMem_Mean(t *testing.T) {
	m, c := newWithClock()

	assert.Zero(t, m.Mean("temperature", time.Hour))

	m.Gauge("temperature", 10)
	c.add(90 * time.Minute)
	m.Gauge("temperature", 20)
	c.add(time.Minute)
	m.Gauge("temperature", 30)

	assert.InDelta(t, 25, m.Mean("temperature", time.Hour), 1e-9)
	assert.InDelta(t, 20, m.Mean("temperature", 2*time.Hour), 1e-9)
	assert.Zero(t, m.Mean("humidity", time.Hour))
}

func TestInMem_Retention(t *testing.T) {
	m, c := newWithClock(WithRetention(time.Hour))

	m.Gauge("temperature", 1)
	c.add(30 * time.Minute)
	m.Gauge("temperature", 2)
	c.add(45 * time.Minute)
	m.Gauge("temperature", 3)

	// the first value is 75m old and must be gone
	assert.Len(t, m.GaugeTimeLine["temperature"], 2)
	assert.Equal(t, 2.0, m.GaugeTimeLine["temperature"][0].V)

	c.add(2 * time.Hour)
	m.Gauge("temperature", 4)
	assert.Len(t, m.GaugeTimeLine["temperature"], 1)
}

func TestInMem_NoRetentionKeepsAll(t *testing.T) {
	m, c := newWithClock()

	for i := 0; i < 5; i++ {
		m.Gauge("temperature", float64(i))
		c.add(24 * time.Hour)
	}

	assert.Len(t, m.GaugeTimeLine["temperature"], 5)
}
