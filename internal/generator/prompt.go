package generator

import "fmt"

// Лимиты генерации, как в исходном боте
const (
	// Максимум символов контекста истории, отправляемых модели
	maxContextChars = 15000
	// Максимальная длина публикуемого сегмента истории
	maxPostChars = 500
	// Границы длины варианта опроса
	minOptionChars = 5
	maxOptionChars = 90
	// Опрос всегда из 4 вариантов
	optionCount = 4
)

// continuationSystemPrompt — системная инструкция для продолжения истории.
// Модель обязана вернуть один JSON-объект с полями next_segment и options.
const continuationSystemPrompt = "Ты — креативный писатель на русском. Продолжай интерактивную историю ТРЕМЯ абзацами,\n" +
	"учитывая победивший вариант опроса. Каждый абзац отделяй пустой строкой.\n" +
	"Абзацы короткие (1-2 предложения). Общая длина продолжения не более 500 символов.\n" +
	"Избегай клише и 'AI slop'. Не меняй стиль рассказчика без причины.\n" +
	"Дополнительно предложи ровно 4 КОРОТКИХ и радикально разных варианта дальнейшего\n" +
	"развития (каждый не длиннее 90 символов).\n\n" +
	"Формат ответа: ВОЗВРАЩАЙ только JSON-объект без пояснений, с полями:\n" +
	"{\"next_segment\": string, \"options\": string[4]}. Без Markdown и кодовых блоков."

// optionsSystemPrompt — системная инструкция для генерации только вариантов
// опроса (используется на самом первом шаге, когда публикуется стартовая идея)
const optionsSystemPrompt = "Ты помогаешь интерактивной истории. На основе ПОЛНОГО текущего текста предложи ровно 4\n" +
	"КОРОТКИХ и радикально разных варианта продолжения (<= 90 символов).\n" +
	"Верни ТОЛЬКО JSON: {\"options\": string[4]}."

// buildContinuationPrompt собирает пользовательский промт для продолжения
func buildContinuationPrompt(currentStory, winner string) string {
	return fmt.Sprintf(
		"Предыдущая история:\n%s\n\nВыбор пользователей: '%s'\n\n"+
			"Верни только JSON с полями next_segment и options. next_segment <= %d символов.",
		tailTruncate(currentStory, maxContextChars), winner, maxPostChars)
}

// buildOptionsPrompt собирает пользовательский промт для вариантов опроса
func buildOptionsPrompt(currentStory string) string {
	return fmt.Sprintf(
		"Контекст истории:\n%s\n\nВерни только JSON с массивом 'options' из 4 строк.",
		tailTruncate(currentStory, maxContextChars))
}

// tailTruncate оставляет последние max рун строки — хвост истории важнее начала
func tailTruncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[len(runes)-max:])
}
