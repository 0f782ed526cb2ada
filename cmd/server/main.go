package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/dance-contest-core/internal/app"
	"github.com/Spok95/dance-contest-core/internal/config"
	"github.com/Spok95/dance-contest-core/internal/db"
	"github.com/Spok95/dance-contest-core/internal/jobs"
	"github.com/Spok95/dance-contest-core/internal/logging"
	"github.com/Spok95/dance-contest-core/internal/metrics"
	"github.com/Spok95/dance-contest-core/internal/observability"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var release = "dev" // подставляется при сборке через -ldflags

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, closeLog, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer closeLog()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Warn("sentry не инициализирован", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("подключение к базе", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	// Миграции явно и один раз при старте: вычислительное ядро получает
	// уже готовый хэндл, ленивой инициализации по месту нет.
	if err := db.Migrate(database); err != nil {
		lg.Fatal("миграции", zap.Error(err))
	}

	if cfg.SeedDemo {
		if err := db.SeedDemo(ctx, database); err != nil {
			lg.Warn("демо-данные не загружены", zap.Error(err))
		}
	}

	runner := jobs.New(ctx)
	runner.Every(time.Minute, "db_ping", func(ctx context.Context) error {
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})
	runner.Every(5*time.Minute, "scored_performances", func(ctx context.Context) error {
		var n int
		if err := database.QueryRowContext(ctx,
			`SELECT COUNT(DISTINCT performance_id) FROM scores`).Scan(&n); err != nil {
			return err
		}
		metrics.ScoredPerformances.Set(float64(n))
		return nil
	})

	app.StartHTTP(ctx, cfg.HTTPAddr, database, lg)
	lg.Info("сервис запущен", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))

	<-ctx.Done()
	lg.Info("остановка по сигналу")
}
