package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/jenga/internal/config"
	"github.com/annel0/jenga/internal/eventbus"
	"github.com/annel0/jenga/internal/game"
	"github.com/annel0/jenga/internal/logging"
	"github.com/annel0/jenga/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (falls back to $JENGA_CONFIG)")
		cheats     = flag.Int("cheats", -1, "Cheat chances (overrides config)")
		seed       = flag.Int64("seed", 0, "Random seed, 0 = time based (overrides config)")
		logLevel   = flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *cheats >= 0 {
		cfg.Tower.CheatChances = cheats
	}
	if *seed != 0 {
		cfg.Tower.Seed = *seed
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	level, err := logging.ParseLevel(cfg.Logging.GetLevel())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logging.InitDefaultLogger(os.Stderr, level, cfg.Logging.NoColor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.GetServiceName())
		if err != nil {
			logging.Error("Ошибка инициализации OpenTelemetry: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Error("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	bus := eventbus.NewMemoryBus(cfg.EventBus.GetCapacity())
	defer bus.Close()
	eventbus.Init(bus)
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Error("Ошибка подписки LoggingListener: %v", err)
	}

	reg := prometheus.NewRegistry()
	if err := eventbus.RegisterMetrics(reg, bus); err != nil {
		log.Fatalf("❌ Ошибка регистрации метрик шины: %v", err)
	}
	metrics, err := game.NewMetrics(reg)
	if err != nil {
		log.Fatalf("❌ Ошибка регистрации метрик игры: %v", err)
	}

	session := game.NewSession(game.Options{
		CheatChances: cfg.Tower.GetCheatChances(),
		Seed:         cfg.Tower.GetSeed(),
		Bus:          bus,
		Metrics:      metrics,
	})
	logging.Info("🎮 Башня готова: сессия %s, попыток жульничества %d", session.ID(), cfg.Tower.GetCheatChances())

	repl := NewREPL(session, os.Stdout)
	done := make(chan error, 1)
	go func() { done <- repl.Run(ctx, os.Stdin) }()

	select {
	case err := <-done:
		if err != nil {
			logging.Error("Ошибка чтения ввода: %v", err)
		}
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения")
	}

	st := session.Status()
	logging.Info("👋 Итог: высота %d, стабильность %d, вынуто %d", st.Height, st.Stability, st.RemovedBlocks)
}
