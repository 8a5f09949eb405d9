package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/class-reservations/internal/audit"
	"github.com/BruksfildServices01/class-reservations/internal/catalog"
	"github.com/BruksfildServices01/class-reservations/internal/clock"
	"github.com/BruksfildServices01/class-reservations/internal/config"
	dbpkg "github.com/BruksfildServices01/class-reservations/internal/db"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/eligibility"
	"github.com/BruksfildServices01/class-reservations/internal/export"
	"github.com/BruksfildServices01/class-reservations/internal/handlers"
	"github.com/BruksfildServices01/class-reservations/internal/infra/repository"
	"github.com/BruksfildServices01/class-reservations/internal/ledger"
	"github.com/BruksfildServices01/class-reservations/internal/lock"
	"github.com/BruksfildServices01/class-reservations/internal/notify"
	"github.com/BruksfildServices01/class-reservations/internal/obs"
	"github.com/BruksfildServices01/class-reservations/internal/routes"
	"github.com/BruksfildServices01/class-reservations/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/class-reservations/internal/usecase/appointment"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := must(config.Load())

	shutdownTracer := must(obs.InitTracer("class-reservations", "0.1.0", cfg.OTLPEndpoint))
	db := must(dbpkg.NewDB(cfg))

	loc := timezone.Location(cfg.SchoolTimezone)
	clk := clock.NewSystem(loc)

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	appointments := must(ledger.Open(ctx, ledger.NewMemoryStore(), repository.NewAppointmentGormRepository(db)))
	if cfg.LegacyImportPath != "" {
		importLegacy(ctx, appointments, cfg.LegacyImportPath)
	}

	sessions := catalog.NewGenerator(
		catalog.NewGormTemplateSource(db),
		clk,
		loc,
		catalog.WithHorizonDays(cfg.ScheduleHorizonDays),
		catalog.WithEnrollments(appointments),
	)

	gate := eligibility.NewGate(eligibility.NewGormDirectory(db, clk), cfg.UpstreamTimeout)

	var redisClient *redis.Client
	if cfg.LockBackend == "redis" || cfg.EventsBackend == "redis" {
		redisClient = newRedis(ctx, cfg.RedisURL)
		defer redisClient.Close()
	}

	var locker domain.Locker = lock.NewKeyedMutex()
	if cfg.LockBackend == "redis" {
		locker = lock.NewRedisLocker(redisClient, cfg.LockTTL)
	}

	auditLogger := audit.New(db)
	sinks := []audit.Sink{auditLogger}
	switch cfg.EventsBackend {
	case "redis":
		sinks = append(sinks, notify.NewRedisPublisher(redisClient, cfg.RedisChannel))
	case "amqp":
		pub := must(notify.NewAMQPPublisher(cfg.RabbitURL, cfg.BookingExchange))
		defer pub.Close()
		sinks = append(sinks, pub)
	default:
		sinks = append(sinks, notify.LogSink{})
	}
	dispatcher := audit.NewDispatcher(sinks...)

	var exporter handlers.Exporter
	if cfg.ExportBucket != "" {
		exporter = export.NewS3Exporter(
			export.NewS3Client(export.S3Config{
				Bucket:    cfg.ExportBucket,
				Region:    cfg.ExportRegion,
				Endpoint:  cfg.ExportEndpoint,
				AccessKey: cfg.AWSAccessKey,
				SecretKey: cfg.AWSSecretKey,
			}),
			cfg.ExportBucket,
			clk,
		)
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	opts := []ucAppointment.Option{
		ucAppointment.WithCutoff(cfg.BookingCutoff),
		ucAppointment.WithUpstreamTimeout(cfg.UpstreamTimeout),
	}
	batchBookUC := ucAppointment.NewBatchBook(gate, sessions, appointments, locker, dispatcher, clk, opts...)
	cancelUC := ucAppointment.NewCancelAppointment(sessions, appointments, locker, dispatcher, clk, opts...)
	listUC := ucAppointment.NewListAppointments(appointments, sessions)
	listSessionsUC := ucAppointment.NewListSessions(sessions)

	// ======================================================
	// 🧩 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, routes.Handlers{
		Me:           handlers.NewMeHandler(gate),
		Appointments: handlers.NewAppointmentHandler(batchBookUC, cancelUC, listUC, exporter),
		Sessions:     handlers.NewSessionHandler(listSessionsUC),
		AuditLogs:    handlers.NewAuditLogsHandler(auditLogger, loc),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Printf("event dispatcher: %v", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("tracer shutdown: %v", err)
	}
	log.Println("stopped")
}

func newRedis(ctx context.Context, url string) *redis.Client {
	opts := must(redis.ParseURL(url))
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}
	return client
}

func importLegacy(ctx context.Context, l *ledger.Ledger, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("legacy import: %v", err)
	}
	defer f.Close()

	n, err := ledger.ImportLegacy(ctx, l, f)
	if err != nil {
		log.Fatalf("legacy import: %v", err)
	}
	log.Printf("legacy import: %d records from %s", n, path)
}
