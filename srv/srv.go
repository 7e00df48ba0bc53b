package srv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plant-keeper/sensorsim/internal/sensors"
	"github.com/plant-keeper/sensorsim/internal/sink"
	"github.com/plant-keeper/sensorsim/log"
)

const (
	defaultInterval = 60 * time.Second

	temperatureKey = "temperature"
	sentKey        = "readings_sent"
	failedKey      = "readings_failed"
	erroredKey     = "readings_errored"
)

type SinkStatus int

const (
	UNKNOWN SinkStatus = iota
	ONLINE
	OFFLINE
)

func (s SinkStatus) String() string {
	switch s {
	case ONLINE:
		return "🟢 Online"
	case OFFLINE:
		return "🔴 Offline"
	default:
		return "⚪ Unknown"
	}
}

type Sensor interface {
	Current() (sensors.Reading, error)
}

type Sink interface {
	Send(ctx context.Context, r sensors.Reading) error
}

type Metrics interface {
	Inc(key string)
	Count(key string) int
	Gauge(key string, val float64)
	Mean(key string, dur time.Duration) float64
}

// SleepFn blocks for d or until ctx is done
type SleepFn func(ctx context.Context, d time.Duration) error

type Option func(s *Server)

func WithInterval(d time.Duration) Option {
	return func(s *Server) {
		s.interval = d
	}
}

func WithSleep(fn SleepFn) Option {
	return func(s *Server) {
		s.sleep = fn
	}
}

// WithCycles stops Run after n cycles. Zero means run forever.
func WithCycles(n int) Option {
	return func(s *Server) {
		s.cycles = n
	}
}

type Server struct {
	sensor  Sensor
	sink    Sink
	metrics Metrics

	interval time.Duration
	sleep    SleepFn
	cycles   int

	sinkStatus SinkStatus
	sinkErr    error
	startTime  time.Time
}

func New(sensor Sensor, out Sink, metrics Metrics, opts ...Option) *Server {
	s := &Server{
		sensor:   sensor,
		sink:     out,
		metrics:  metrics,
		interval: defaultInterval,
		sleep:    sleep,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run sends one reading per interval until ctx is done or the cycle bound is reached.
func (s *Server) Run(ctx context.Context) error {
	s.startTime = time.Now()
	log.Info.Printf("start sending sensor data every %s", s.interval)

	for n := 0; s.cycles == 0 || n < s.cycles; n++ {
		if err := s.safeCycle(ctx); err != nil {
			log.Erro.Printf("cycle failed: %s", err.Error())
		}

		log.Debg.Print(s.title() + s.stats())

		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
	}

	return nil
}

func (s *Server) safeCycle(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	s.cycle(ctx)

	return nil
}

func (s *Server) cycle(ctx context.Context) {
	r, err := s.sensor.Current()
	if err != nil {
		log.Erro.Printf("can't get sensor data: %s", err.Error())

		return
	}

	log.Info.Printf("sending data: %s", r)
	s.metrics.Gauge(temperatureKey, r.Temperature)

	err = s.sink.Send(ctx, r)

	var statusErr *sink.StatusError
	switch {
	case err == nil:
		log.Info.Println("data successfully sent")
		s.metrics.Inc(sentKey)
		s.sinkStatus, s.sinkErr = ONLINE, nil
	case errors.As(err, &statusErr):
		log.Erro.Printf("failed to send data, status code: %d", statusErr.Code)
		s.metrics.Inc(failedKey)
		s.sinkStatus, s.sinkErr = OFFLINE, err
	default:
		log.Erro.Printf("error sending data: %s", err.Error())
		s.metrics.Inc(erroredKey)
		s.sinkStatus, s.sinkErr = OFFLINE, err
	}
}

func (s *Server) title() string {
	t := fmt.Sprintf("Sink: %s %s\n", s.sinkStatus, s.formatUptime())
	if s.sinkStatus == OFFLINE && s.sinkErr != nil {
		t += fmt.Sprintf("Error: %s\n", s.sinkErr.Error())
	}

	return t
}

func (s *Server) stats() string {
	return fmt.Sprintf(
		"Sent: %d Failed: %d Errors: %d Avg T 1h: %.2f\n",
		s.metrics.Count(sentKey),
		s.metrics.Count(failedKey),
		s.metrics.Count(erroredKey),
		s.metrics.Mean(temperatureKey, time.Hour),
	)
}

func (s *Server) formatUptime() string {
	d := time.Since(s.startTime)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))

	return fmt.Sprintf("(uptime: %s)", strings.Join(parts, " "))
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
