package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию бота интерактивной истории
type Config struct {
	// Настройки Telegram
	BotToken        string        `envconfig:"BOT_TOKEN" required:"true"`
	ChannelID       string        `envconfig:"CHANNEL_ID" required:"true"`
	TelegramTimeout time.Duration `envconfig:"TELEGRAM_TIMEOUT" default:"30s"`

	// Настройки AI (Gemini напрямую или OpenAI-совместимый эндпоинт)
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"gemini"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiModel  string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	// Настройки истории
	InitialStoryIdea string `envconfig:"INITIAL_STORY_IDEA"`
	StateFile        string `envconfig:"STATE_FILE" default:"story_state.json"`

	// Настройки планировщика
	StepIntervalSeconds int  `envconfig:"STEP_INTERVAL_SECONDS" default:"60"`
	RunOnce             bool `envconfig:"RUN_ONCE" default:"false"`

	// Порт для метрик Prometheus и health-чека
	MetricsPort string `envconfig:"METRICS_PORT" default:"9091"`

	// Уровень логирования (debug, info, warn, error)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// defaultInitialStoryIdea — стартовая идея истории, если INITIAL_STORY_IDEA не задан
const defaultInitialStoryIdea = "Альтернативная вселенная: Великая Отечественная война + киберпанк\n" +
	"Главный герой: Солдат Красной Армии по имени Андрей.\n\n" +
	"Берлинский маршрут: Протокол 77-Б. Ночью на них напал дождь — асинхронный.\n" +
	"Капли падали до того, как небо начинало хмуриться.\n"

// StepInterval возвращает интервал между шагами в непрерывном режиме
func (c *Config) StepInterval() time.Duration {
	return time.Duration(c.StepIntervalSeconds) * time.Second
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if cfg.InitialStoryIdea == "" {
		cfg.InitialStoryIdea = defaultInitialStoryIdea
	}
	if cfg.StepIntervalSeconds <= 0 {
		return nil, fmt.Errorf("STEP_INTERVAL_SECONDS должен быть > 0, получено %d", cfg.StepIntervalSeconds)
	}

	// Логируем загруженную конфигурацию (кроме токена и ключа)
	log.Printf("Конфигурация загружена:")
	log.Printf("  Channel ID: %s", cfg.ChannelID)
	log.Printf("  AI Client Type: %s", cfg.AIClientType)
	log.Printf("  AI Base URL: %s", cfg.AIBaseURL)
	log.Printf("  AI Timeout: %v", cfg.AITimeout)
	log.Printf("  Gemini Model: %s", cfg.GeminiModel)
	log.Printf("  State File: %s", cfg.StateFile)
	log.Printf("  Step Interval: %v", cfg.StepInterval())
	log.Printf("  Run Once: %v", cfg.RunOnce)
	log.Printf("  Metrics Port: %s", cfg.MetricsPort)
	log.Println("  Bot Token: [ЗАГРУЖЕН]")
	log.Println("  Gemini API Key: [ЗАГРУЖЕН]")

	return &cfg, nil
}
