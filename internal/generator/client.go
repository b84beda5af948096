package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"story-bot/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	openaigo "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrGenerationFailed — ошибка вызова AI API (сеть, таймаут, пустой ответ)
var ErrGenerationFailed = errors.New("ошибка генерации текста AI")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_bot_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_bot_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)

// AIClient — интерфейс генератора текста истории
type AIClient interface {
	// GenerateContinuation продолжает историю по победившему варианту.
	// Возвращает сегмент и 4 новых варианта одним структурированным ответом.
	GenerateContinuation(ctx context.Context, currentStory, winner string) (*Continuation, error)
	// GenerateOptions генерирует только 4 варианта опроса
	// (нужно на первом шаге, когда публикуется стартовая идея).
	GenerateOptions(ctx context.Context, currentStory string) ([]string, error)
}

// textBackend — низкоуровневый вызов конкретного AI API
type textBackend interface {
	generateText(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int32) (string, error)
	modelName() string
}

// client реализует AIClient поверх выбранного бэкенда:
// метрики, сборка промтов и разбор структурированного ответа — общие.
type client struct {
	backend textBackend
}

func (c *client) GenerateContinuation(ctx context.Context, currentStory, winner string) (*Continuation, error) {
	raw, err := c.generate(ctx, continuationSystemPrompt, buildContinuationPrompt(currentStory, winner), 0.7, 700)
	if err != nil {
		return nil, err
	}
	cont, err := parseContinuation(raw)
	if err != nil {
		log.Error().Err(err).Int("raw_len", len(raw)).Msg("Модель вернула некорректное продолжение")
		return nil, err
	}
	return cont, nil
}

func (c *client) GenerateOptions(ctx context.Context, currentStory string) ([]string, error) {
	raw, err := c.generate(ctx, optionsSystemPrompt, buildOptionsPrompt(currentStory), 0.6, 200)
	if err != nil {
		return nil, err
	}
	options, err := parseOptions(raw)
	if err != nil {
		log.Error().Err(err).Int("raw_len", len(raw)).Msg("Не удалось распарсить варианты опроса")
		return nil, err
	}
	return options, nil
}

// generate выполняет один вызов бэкенда с метриками
func (c *client) generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int32) (string, error) {
	model := c.backend.modelName()
	startTime := time.Now()

	raw, err := c.backend.generateText(ctx, systemPrompt, userPrompt, temperature, maxTokens)
	duration := time.Since(startTime)

	if err != nil {
		log.Error().Err(err).Str("model", model).Dur("duration", duration).Msg("Ошибка вызова AI API")
		aiRequestsTotal.WithLabelValues(model, "error").Inc()
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(raw) == "" {
		log.Error().Str("model", model).Dur("duration", duration).Msg("AI API вернул пустой ответ")
		aiRequestsTotal.WithLabelValues(model, "error_empty_response").Inc()
		return "", fmt.Errorf("%w: получен пустой ответ", ErrGenerationFailed)
	}

	aiRequestsTotal.WithLabelValues(model, "success").Inc()
	aiRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
	log.Info().Str("model", model).Dur("duration", duration).Int("response_len", len(raw)).Msg("Ответ от AI API получен")
	return raw, nil
}

// --- Gemini backend (нативный SDK) ---

type geminiBackend struct {
	client *genai.Client
	model  string
}

func (b *geminiBackend) modelName() string { return b.model }

func (b *geminiBackend) generateText(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int32) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
		MaxOutputTokens:   maxTokens,
		// Быстрые короткие ответы, режим размышлений не нужен
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(int32(0))},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// --- OpenAI-совместимый backend (Gemini тоже его предоставляет) ---

type openAIBackend struct {
	client *openaigo.Client
	model  string
}

func (b *openAIBackend) modelName() string { return b.model }

func (b *openAIBackend) generateText(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int32) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: b.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openaigo.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   int(maxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// --- Factory ---

// NewAIClient создает клиент генерации в зависимости от конфигурации
func NewAIClient(ctx context.Context, cfg *config.Config) (AIClient, error) {
	switch strings.ToLower(cfg.AIClientType) {
	case "gemini":
		log.Info().Str("model", cfg.GeminiModel).Msg("Используется реализация AI клиента: Gemini")
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания клиента Gemini: %w", err)
		}
		return &client{backend: &geminiBackend{client: genaiClient, model: cfg.GeminiModel}}, nil
	case "openai":
		log.Info().Str("model", cfg.GeminiModel).Str("base_url", cfg.AIBaseURL).Msg("Используется реализация AI клиента: OpenAI-совместимый эндпоинт")
		openaiConfig := openaigo.DefaultConfig(cfg.GeminiAPIKey)
		openaiConfig.BaseURL = cfg.AIBaseURL
		openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
		return &client{backend: &openAIBackend{
			client: openaigo.NewClientWithConfig(openaiConfig),
			model:  cfg.GeminiModel,
		}}, nil
	default:
		return nil, fmt.Errorf("неизвестный тип AI клиента: '%s'", cfg.AIClientType)
	}
}
