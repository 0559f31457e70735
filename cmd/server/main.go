package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/theatre-reservation/internal/audit"
	"github.com/iliyamo/theatre-reservation/internal/backend"
	"github.com/iliyamo/theatre-reservation/internal/config"
	"github.com/iliyamo/theatre-reservation/internal/database"
	"github.com/iliyamo/theatre-reservation/internal/failover"
	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/orchestrator"
	"github.com/iliyamo/theatre-reservation/internal/queue"
	"github.com/iliyamo/theatre-reservation/internal/repository"
	"github.com/iliyamo/theatre-reservation/internal/router"
	"github.com/iliyamo/theatre-reservation/internal/store"
	"github.com/iliyamo/theatre-reservation/internal/task"
)

func main() {
	cfg := config.Load() // Load environment config

	// Primary channel: MySQL with conditional writes.
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()
	primary := repository.NewSQLChannel(
		repository.NewSeatRepo(db),
		repository.NewLockRepo(db),
		repository.NewModePasswordRepo(db),
	)

	// Failover snapshot persistence: Redis when reachable, otherwise
	// in-memory (the snapshot then only lives for this process).
	var kv store.KV
	if rc := config.NewRedisClient(); rc != nil {
		kv = store.NewRedis(rc, "theatre")
	} else {
		log.Printf("redis unreachable, failover state will not survive restarts")
		kv = store.NewMemory()
	}

	// Audit trail: publish to the broker, consume into logs/audit.log.
	sink := audit.NewAMQPSink()
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	ctx := context.Background()
	tracker := failover.NewTracker(ctx, kv, cfg.FailoverStaleAfter,
		failover.WithTransitionHook(func(from, to, reason string) {
			sink.Record(audit.NewEntry(model.AuditFallback, to, "", "", map[string]string{
				"from": from, "reason": reason,
			}))
		}),
	)

	// Secondary endpoints, rotated to spread load across replicas.
	var rotator *failover.Rotator
	if len(cfg.SecondaryEndpoints) > 0 {
		endpoints := make([]backend.Channel, 0, len(cfg.SecondaryEndpoints))
		for _, base := range cfg.SecondaryEndpoints {
			endpoints = append(endpoints, backend.NewHTTPChannel(base, cfg.RequestTimeout))
		}
		rotator = failover.NewRotator(endpoints, cfg.RotationInterval, nil)
	} else {
		log.Printf("no secondary endpoints configured, failover disabled")
	}

	orch := orchestrator.New(orchestrator.Options{
		Primary:  primary,
		Tracker:  tracker,
		Rotator:  rotator,
		Sink:     sink,
		Timeout:  cfg.RequestTimeout,
		MaxSeats: cfg.MaxSeatsPerRequest,
	})

	// Prime the lock cache before serving; the poll task keeps it fresh.
	pollCtx, cancelPoll := context.WithTimeout(ctx, cfg.RequestTimeout)
	orch.Gate().Poll(pollCtx)
	cancelPoll()

	// Periodic jobs: lock poll, staleness sweep, rotation check.
	tasks := []*task.Task{
		task.New("lock-poll", cfg.LockPollInterval, func() {
			pollCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
			defer cancel()
			orch.Gate().Poll(pollCtx)
		}),
		task.New("failover-sweep", cfg.SweepInterval, tracker.Sweep),
	}
	if rotator != nil {
		tasks = append(tasks, task.New("endpoint-rotation", cfg.RotationInterval, rotator.CheckAndRotate))
	}
	for _, t := range tasks {
		t.Start()
	}

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e,
		handler.NewReservationHandler(orch),
		handler.NewAuthHandler(orch, cfg.JWTSecret),
		handler.NewAdminHandler(orch, tracker, rotator),
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	// Teardown: stop timers, flush the failover snapshot, drain the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down")
	for _, t := range tasks {
		t.Stop()
	}
	tracker.Flush()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
