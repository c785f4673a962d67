// Package server boots the HTTP API: config, logging, database, cache,
// storage, background workers, and the router with its middleware stack.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storelane/storelane/app/jobs"
	"github.com/storelane/storelane/app/routes"
	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/app/tasks"
	"github.com/storelane/storelane/config"
	"github.com/storelane/storelane/pkg/cache"
	"github.com/storelane/storelane/pkg/database"
	"github.com/storelane/storelane/pkg/event"
	"github.com/storelane/storelane/pkg/logger"
	"github.com/storelane/storelane/pkg/metrics"
	"github.com/storelane/storelane/pkg/middleware"
	"github.com/storelane/storelane/pkg/migration"
	"github.com/storelane/storelane/pkg/queue"
	"github.com/storelane/storelane/pkg/reqid"
	"github.com/storelane/storelane/pkg/router"
	"github.com/storelane/storelane/pkg/schedule"
	"github.com/storelane/storelane/pkg/storage"
	"github.com/storelane/storelane/pkg/ws"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.MongoLogURI(); uri != "" {
		sink, err := logger.NewMongoHandler(uri, config.MongoLogDatabase(), config.MongoLogCollection())
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			logger.Attach(sink)
			defer sink.Close()
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// Cache misses degrade to DB reads; the queue falls back to memory.
		logger.Warn("redis unavailable, running without cache", "error", err)
	}
	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs.Register()
	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)

	feed := ws.NewHub()
	go feed.Run()

	registerListeners(feed)
	tasks.Register()
	schedule.Start(ctx)

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. CORS              — set CORS headers
	//  6. Rate limiter      — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	if err := routes.RegisterAPI(r, database.DB, feed); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// registerListeners wires the order-placed fanout: the admin WebSocket feed
// gets the order as JSON; the confirmation email goes through the queue.
func registerListeners(feed *ws.Hub) {
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		placed, ok := payload.(services.OrderPlaced)
		if !ok {
			return
		}

		msg, err := json.Marshal(map[string]any{
			"event": services.EventOrderPlaced,
			"order": placed.Order,
		})
		if err != nil {
			logger.Error("order feed: marshal", "error", err)
		} else {
			feed.Broadcast <- msg
		}

		job := jobs.OrderConfirmationJob{
			UserID:      placed.UserID,
			Reference:   placed.Order.Reference,
			TotalAmount: placed.Order.TotalAmount.String(),
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Error("dispatch order confirmation", "reference", job.Reference, "error", err)
		}
	})
}

