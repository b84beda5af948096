package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// Опрос Telegram ограничивает длину варианта 100 символами,
// оригинальный бот режет до 90.
const maxOptionRunes = 90

// PollOption — один вариант опроса с количеством голосов
type PollOption struct {
	Text       string `json:"text"`
	VoterCount int    `json:"voter_count"`
}

// Poll — результат остановленного опроса
type Poll struct {
	ID      string       `json:"id"`
	Options []PollOption `json:"options"`
}

// Client — тонкая обертка над Telegram Bot API, привязанная к одному каналу
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

// NewClient создает клиент Bot API для канала chatID
func NewClient(token, chatID string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultAPIBaseURL,
		token:      token,
		chatID:     chatID,
	}
}

// WithBaseURL заменяет адрес Bot API (используется в тестах)
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// apiResponse — стандартный конверт ответа Bot API
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// sentMessage — интересующая нас часть ответа sendMessage/sendPoll
type sentMessage struct {
	MessageID int `json:"message_id"`
}

// SendMessage публикует текстовое сообщение в канал и возвращает его message_id
func (c *Client) SendMessage(ctx context.Context, text string) (int, error) {
	payload := map[string]interface{}{
		"chat_id": c.chatID,
		"text":    text,
	}

	var msg sentMessage
	if err := c.call(ctx, "sendMessage", payload, &msg); err != nil {
		return 0, fmt.Errorf("sendMessage: %w", err)
	}
	log.Info().Int("message_id", msg.MessageID).Int("text_len", len(text)).Msg("Сообщение опубликовано")
	return msg.MessageID, nil
}

// SendPoll создает анонимный опрос и возвращает message_id сообщения с опросом
func (c *Client) SendPoll(ctx context.Context, question string, options []string) (int, error) {
	trimmed := make([]string, 0, len(options))
	for _, o := range options {
		trimmed = append(trimmed, truncateRunes(o, maxOptionRunes))
	}

	payload := map[string]interface{}{
		"chat_id":      c.chatID,
		"question":     question,
		"options":      trimmed,
		"is_anonymous": true,
	}

	var msg sentMessage
	if err := c.call(ctx, "sendPoll", payload, &msg); err != nil {
		return 0, fmt.Errorf("sendPoll: %w", err)
	}
	log.Info().Int("message_id", msg.MessageID).Int("options", len(trimmed)).Msg("Опрос опубликован")
	return msg.MessageID, nil
}

// StopPoll закрывает опрос по message_id и возвращает его финальное состояние
func (c *Client) StopPoll(ctx context.Context, messageID int) (*Poll, error) {
	payload := map[string]interface{}{
		"chat_id":    c.chatID,
		"message_id": messageID,
	}

	var poll Poll
	if err := c.call(ctx, "stopPoll", payload, &poll); err != nil {
		return nil, fmt.Errorf("stopPoll: %w", err)
	}
	log.Info().Int("message_id", messageID).Int("options", len(poll.Options)).Msg("Опрос закрыт")
	return &poll, nil
}

// call выполняет один POST-запрос к методу Bot API и разбирает конверт ответа
func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к Telegram API: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("ошибка декодирования ответа Telegram API: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram API вернул ошибку %d: %s", envelope.ErrorCode, envelope.Description)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("ошибка декодирования result: %w", err)
		}
	}
	return nil
}

// truncateRunes обрезает строку до max рун, не разрывая UTF-8
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
