package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReply — модель вернула не-JSON или JSON без нужных полей.
// Шаг в этом случае не продвигает историю, а публикует фолбэк-опрос.
var ErrMalformedReply = errors.New("некорректный ответ модели")

// Continuation — структурированный результат генерации:
// следующий сегмент истории и ровно 4 варианта продолжения.
type Continuation struct {
	NextSegment string   `json:"next_segment"`
	Options     []string `json:"options"`
}

// extractJSON аккуратно достает JSON-объект из произвольного текста модели.
// Сначала прямой парсинг, затем эвристика: подстрока от первого '{' до последней '}'.
func extractJSON(text string, v interface{}) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: пустой текст", ErrMalformedReply)
	}

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: не удалось распарсить JSON", ErrMalformedReply)
}

// parseContinuation разбирает и валидирует ответ на запрос продолжения
func parseContinuation(raw string) (*Continuation, error) {
	var cont Continuation
	if err := extractJSON(raw, &cont); err != nil {
		return nil, err
	}

	segment := strings.TrimSpace(cont.NextSegment)
	if segment == "" {
		return nil, fmt.Errorf("%w: пустой next_segment", ErrMalformedReply)
	}
	segment = headTruncate(segment, maxPostChars)

	options, err := sanitizeOptions(cont.Options)
	if err != nil {
		return nil, err
	}

	return &Continuation{NextSegment: segment, Options: options}, nil
}

// parseOptions разбирает и валидирует ответ на запрос только вариантов
func parseOptions(raw string) ([]string, error) {
	var reply struct {
		Options []string `json:"options"`
	}
	if err := extractJSON(raw, &reply); err != nil {
		return nil, err
	}
	return sanitizeOptions(reply.Options)
}

// sanitizeOptions чистит варианты: trim, обрезка до 90 символов,
// отбрасывание слишком коротких. На выходе должно остаться ровно 4.
func sanitizeOptions(raw []string) ([]string, error) {
	options := make([]string, 0, optionCount)
	for _, o := range raw {
		s := headTruncate(strings.TrimSpace(o), maxOptionChars)
		if len([]rune(s)) >= minOptionChars {
			options = append(options, s)
		}
	}
	if len(options) != optionCount {
		return nil, fmt.Errorf("%w: ожидалось %d вариантов, получили %d", ErrMalformedReply, optionCount, len(options))
	}
	return options, nil
}

// FallbackOptions возвращает дефолтные варианты опроса на случай,
// когда модель не смогла выдать корректный список
func FallbackOptions() []string {
	return []string{
		"Продолжить штурмовать позиции",
		"Искать обходной путь",
		"Запросить подкрепление",
		"Перегруппироваться",
	}
}

// headTruncate обрезает строку до max рун с начала
func headTruncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
