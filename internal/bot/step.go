package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"story-bot/internal/generator"
	"story-bot/internal/state"
	"story-bot/internal/telegram"

	"github.com/rs/zerolog/log"
)

// pollQuestion — вопрос каждого опроса
const pollQuestion = "Как продолжится история?"

// StateStore абстрагирует хранилище StoryState
type StateStore interface {
	Load() (*state.StoryState, error)
	Save(st *state.StoryState) error
}

// Messenger абстрагирует вызовы мессенджера, привязанные к одному каналу
type Messenger interface {
	SendMessage(ctx context.Context, text string) (int, error)
	SendPoll(ctx context.Context, question string, options []string) (int, error)
	StopPoll(ctx context.Context, messageID int) (*telegram.Poll, error)
}

// StepController — конечный автомат одного шага истории.
// Других методов, кроме RunStep, не экспонируется.
type StepController struct {
	store     StateStore
	messenger Messenger
	ai        generator.AIClient
	seed      string
	rng       *rand.Rand
}

// NewStepController создает контроллер шага.
// rng инжектируется ради детерминированных тестов случайного победителя.
func NewStepController(store StateStore, messenger Messenger, ai generator.AIClient, seed string, rng *rand.Rand) *StepController {
	return &StepController{
		store:     store,
		messenger: messenger,
		ai:        ai,
		seed:      seed,
		rng:       rng,
	}
}

// RunStep выполняет один полный шаг:
// закрыть прошлый опрос, определить победителя, сгенерировать и опубликовать
// продолжение, создать новый опрос, сохранить состояние.
func (c *StepController) RunStep(ctx context.Context) error {
	log.Info().Msg("--- Шаг истории ---")
	MetricsIncrementStepsStarted()

	st, err := c.store.Load()
	if err != nil {
		MetricsIncrementStepFailed("state_load")
		return fmt.Errorf("ошибка загрузки состояния: %w", err)
	}

	// 1) Кто победил в прошлом опросе?
	winner := c.resolvePreviousPoll(ctx, st)

	currentStory := st.CurrentStory
	var options []string

	if currentStory == "" {
		// 2а) Истории еще нет — публикуем стартовую идею
		log.Info().Msg("Опроса еще не было — начинаем со стартовой идеи")
		if _, err := c.messenger.SendMessage(ctx, c.seed); err != nil {
			MetricsIncrementStepFailed("send_message")
			return fmt.Errorf("ошибка публикации старта истории: %w", err)
		}
		currentStory = c.seed

		opts, err := c.ai.GenerateOptions(ctx, currentStory)
		if err != nil {
			log.Error().Err(err).Msg("Не удалось сгенерировать варианты для первого опроса, используем фолбэк")
			MetricsIncrementStepFailed("options_generation")
			opts = generator.FallbackOptions()
		}
		options = opts
	} else {
		// 2б) Генерируем продолжение по победившему варианту
		if winner == "" {
			log.Warn().Msg("Победитель не определен — используем стартовую идею как подсказку")
			winner = c.seed
		}
		log.Info().Str("winner", winner).Msg("Генерируем продолжение")

		cont, err := c.ai.GenerateContinuation(ctx, currentStory, winner)
		switch {
		case errors.Is(err, generator.ErrMalformedReply):
			// Историю не продвигаем, но опрос публикуем, чтобы шаги не остановились
			log.Error().Err(err).Msg("Некорректный ответ генератора — публикуем фолбэк-опрос, история не продвигается")
			MetricsIncrementStepFailed("malformed_reply")
			options = generator.FallbackOptions()
		case err != nil:
			MetricsIncrementStepFailed("generation")
			return fmt.Errorf("ошибка генерации продолжения: %w", err)
		default:
			if _, err := c.messenger.SendMessage(ctx, cont.NextSegment); err != nil {
				MetricsIncrementStepFailed("send_message")
				return fmt.Errorf("ошибка публикации сегмента: %w", err)
			}
			currentStory = appendSegment(currentStory, cont.NextSegment)
			options = cont.Options
		}
	}

	// 3) Публикуем новый опрос
	pollMessageID, err := c.messenger.SendPoll(ctx, pollQuestion, options)
	if err != nil {
		MetricsIncrementStepFailed("send_poll")
		return fmt.Errorf("ошибка публикации опроса: %w", err)
	}

	// 4) Сохраняем состояние — ровно один раз, в конце шага
	if err := c.store.Save(&state.StoryState{
		CurrentStory:      currentStory,
		LastPollMessageID: &pollMessageID,
	}); err != nil {
		MetricsIncrementStepFailed("state_save")
		return fmt.Errorf("ошибка сохранения состояния: %w", err)
	}

	MetricsIncrementStepSucceeded()
	log.Info().Int("poll_message_id", pollMessageID).Msg("--- Шаг истории успешно завершен ---")
	return nil
}

// resolvePreviousPoll закрывает прошлый опрос и возвращает текст победителя.
// Пустая строка означает, что победителя определить не удалось.
func (c *StepController) resolvePreviousPoll(ctx context.Context, st *state.StoryState) string {
	if st.LastPollMessageID == nil {
		return ""
	}

	messageID := *st.LastPollMessageID
	log.Info().Int("message_id", messageID).Msg("Закрываем прошлый опрос")

	poll, err := c.messenger.StopPoll(ctx, messageID)
	if err != nil {
		log.Error().Err(err).Int("message_id", messageID).Msg("Ошибка при остановке опроса")
		return ""
	}
	if len(poll.Options) == 0 {
		log.Warn().Int("message_id", messageID).Msg("Опрос без вариантов")
		return ""
	}

	idx, mode := ResolveWinner(poll.Options, c.rng)
	MetricsIncrementWinnerResolved(mode)
	log.Info().Int("winner_index", idx).Str("mode", mode).Str("winner", poll.Options[idx].Text).Msg("Победитель определен")
	return poll.Options[idx].Text
}

// Режимы определения победителя (метка метрики)
const (
	WinnerModeMax    = "max"    // однозначный максимум голосов
	WinnerModeTie    = "tie"    // ничья, взят первый из лидеров
	WinnerModeRandom = "random" // голосов нет, случайный выбор
)

// ResolveWinner выбирает индекс победившего варианта:
// максимум голосов; при ничьей — наименьший индекс;
// при нуле голосов — равновероятный случайный индекс.
func ResolveWinner(options []telegram.PollOption, rng *rand.Rand) (int, string) {
	maxVotes := -1
	winnerIdx := 0
	tied := 0
	for i, opt := range options {
		if opt.VoterCount > maxVotes {
			maxVotes = opt.VoterCount
			winnerIdx = i
			tied = 1
		} else if opt.VoterCount == maxVotes {
			tied++
		}
	}

	if maxVotes <= 0 {
		return rng.Intn(len(options)), WinnerModeRandom
	}
	if tied > 1 {
		return winnerIdx, WinnerModeTie
	}
	return winnerIdx, WinnerModeMax
}

// appendSegment присоединяет сегмент к истории через пустую строку
func appendSegment(story, segment string) string {
	if story == "" {
		return segment
	}
	return story + "\n\n" + segment
}
