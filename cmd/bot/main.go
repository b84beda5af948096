package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"story-bot/internal/bot"
	"story-bot/internal/config"
	"story-bot/internal/generator"
	"story-bot/internal/state"
	"story-bot/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	mathrand "math/rand"
)

func main() {
	// Загружаем .env файл (если есть) для локальной разработки
	_ = godotenv.Load()

	setupLogger(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Запуск бота интерактивной истории...")

	// Загружаем конфигурацию; отсутствие обязательных значений — фатально
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка загрузки конфигурации. Проверь BOT_TOKEN / CHANNEL_ID / GEMINI_API_KEY")
	}

	// HTTP-сервер для метрик Prometheus и health-чека
	go startMetricsServer(cfg.MetricsPort)

	// Контекст, отменяемый по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Зависимости контроллера шага
	store := state.NewFileStore(cfg.StateFile)
	messenger := telegram.NewClient(cfg.BotToken, cfg.ChannelID, cfg.TelegramTimeout)

	aiClient, err := generator.NewAIClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка инициализации AI клиента")
	}

	rng := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	controller := bot.NewStepController(store, messenger, aiClient, cfg.InitialStoryIdea, rng)
	scheduler := bot.NewScheduler(controller, cfg.StepInterval())

	if cfg.RunOnce {
		// Single-shot режим: один шаг, код выхода для внешнего cron
		log.Info().Msg("Режим RUN_ONCE: выполняем один шаг истории")
		if err := scheduler.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("Шаг истории завершился с ошибкой")
			os.Exit(1)
		}
		log.Info().Msg("Шаг истории выполнен, выходим")
		return
	}

	// Непрерывный режим: цикл до сигнала завершения
	log.Info().Dur("interval", cfg.StepInterval()).Msg("Запускаем цикл истории")
	scheduler.RunForever(ctx)
	log.Info().Msg("Бот интерактивной истории остановлен")
}

// setupLogger настраивает глобальный zerolog: консольный вывод и уровень
func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// startMetricsServer запускает HTTP-сервер для эндпоинтов /metrics и /health
func startMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	log.Info().Str("port", port).Msg("Запуск HTTP-сервера для метрик Prometheus и health")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Error().Err(err).Msg("Ошибка запуска HTTP-сервера для метрик")
	}
}
