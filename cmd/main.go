package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plant-keeper/sensorsim/internal/metrics"
	"github.com/plant-keeper/sensorsim/internal/sensors"
	"github.com/plant-keeper/sensorsim/internal/sink"
	"github.com/plant-keeper/sensorsim/log"
	"github.com/plant-keeper/sensorsim/srv"
)

const (
	serverURL        = "http://178.192.219.78:8080/sensor-data"
	sendInterval     = 60 * time.Second
	sendTimeout      = 10 * time.Second
	metricsRetention = 24 * time.Hour
)

var revision = "HEAD"

func main() {
	log.Debg.Off()
	log.Info.Printf("🌱 revision: %s", revision)

	server := srv.New(
		sensors.NewRandom(nil),
		sink.NewHTTP(serverURL, sink.WithTimeout(sendTimeout)),
		metrics.New(metrics.WithRetention(metricsRetention)),
		srv.WithInterval(sendInterval),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		return graceful(ctx, cancel)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Erro.Printf("can't run sensor: %s", err.Error())
		os.Exit(1)
	}

	log.Info.Println("bye")
}

func graceful(ctx context.Context, cancel context.CancelFunc) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case <-c:
		log.Info.Println("sensor shutdown...")
		cancel()
	case <-ctx.Done():
	}

	return nil
}
