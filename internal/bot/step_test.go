package bot_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"story-bot/internal/bot"
	"story-bot/internal/generator"
	"story-bot/internal/mocks"
	"story-bot/internal/state"
	"story-bot/internal/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSeed     = "Стартовая идея истории."
	testQuestion = "Как продолжится история?"
)

func intPtr(i int) *int {
	return &i
}

func pollWithVotes(votes ...int) *telegram.Poll {
	options := make([]telegram.PollOption, len(votes))
	texts := []string{"Вариант ноль", "Вариант один", "Вариант два", "Вариант три"}
	for i, v := range votes {
		options[i] = telegram.PollOption{Text: texts[i], VoterCount: v}
	}
	return &telegram.Poll{ID: "poll-1", Options: options}
}

// --- Определение победителя ---

func TestResolveWinner_Max(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	idx, mode := bot.ResolveWinner(pollWithVotes(0, 5, 1, 2).Options, rng)
	assert.Equal(t, 1, idx)
	assert.Equal(t, bot.WinnerModeMax, mode)
}

func TestResolveWinner_TieGoesToLowestIndex(t *testing.T) {
	// Сценарий из контракта: {0:2, 1:2, 2:0, 3:1} → вариант 0
	rng := rand.New(rand.NewSource(1))
	idx, mode := bot.ResolveWinner(pollWithVotes(2, 2, 0, 1).Options, rng)
	assert.Equal(t, 0, idx)
	assert.Equal(t, bot.WinnerModeTie, mode)
}

func TestResolveWinner_ZeroVotesIsRandomUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[int]int)
	for i := 0; i < 1000; i++ {
		idx, mode := bot.ResolveWinner(pollWithVotes(0, 0, 0, 0).Options, rng)
		require.Equal(t, bot.WinnerModeRandom, mode)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
		seen[idx]++
	}
	// Каждый индекс достижим, распределение примерно равномерное
	require.Len(t, seen, 4)
	for idx, count := range seen {
		assert.Greater(t, count, 150, "индекс %d выпадает слишком редко", idx)
	}
}

// --- Шаг контроллера ---

func TestStepController_FirstStep_PostsSeed(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	store.On("Load").Return(&state.StoryState{}, nil).Once()
	messenger.On("SendMessage", mock.Anything, testSeed).Return(10, nil).Once()
	ai.On("GenerateOptions", mock.Anything, testSeed).
		Return([]string{"Вариант один", "Вариант два", "Вариант три", "Вариант четыре"}, nil).Once()
	messenger.On("SendPoll", mock.Anything, testQuestion,
		[]string{"Вариант один", "Вариант два", "Вариант три", "Вариант четыре"}).Return(11, nil).Once()
	store.On("Save", &state.StoryState{
		CurrentStory:      testSeed,
		LastPollMessageID: intPtr(11),
	}).Return(nil).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	require.NoError(t, ctrl.RunStep(context.Background()))
}

func TestStepController_FirstStep_OptionsFailureFallsBack(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	store.On("Load").Return(&state.StoryState{}, nil).Once()
	messenger.On("SendMessage", mock.Anything, testSeed).Return(10, nil).Once()
	ai.On("GenerateOptions", mock.Anything, testSeed).
		Return(nil, generator.ErrMalformedReply).Once()
	messenger.On("SendPoll", mock.Anything, testQuestion, generator.FallbackOptions()).Return(11, nil).Once()
	store.On("Save", mock.AnythingOfType("*state.StoryState")).Return(nil).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	require.NoError(t, ctrl.RunStep(context.Background()))
}

func TestStepController_Continuation_Success(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	story := "Первая часть истории."
	store.On("Load").Return(&state.StoryState{
		CurrentStory:      story,
		LastPollMessageID: intPtr(20),
	}, nil).Once()

	// Опрос закрыт, вариант 1 победил с максимумом голосов
	messenger.On("StopPoll", mock.Anything, 20).Return(pollWithVotes(1, 5, 0, 2), nil).Once()

	cont := &generator.Continuation{
		NextSegment: "Новый сегмент.",
		Options:     []string{"Вариант один", "Вариант два", "Вариант три", "Вариант четыре"},
	}
	ai.On("GenerateContinuation", mock.Anything, story, "Вариант один").Return(cont, nil).Once()

	messenger.On("SendMessage", mock.Anything, "Новый сегмент.").Return(21, nil).Once()
	messenger.On("SendPoll", mock.Anything, testQuestion, cont.Options).Return(22, nil).Once()

	store.On("Save", &state.StoryState{
		CurrentStory:      story + "\n\nНовый сегмент.",
		LastPollMessageID: intPtr(22),
	}).Return(nil).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	require.NoError(t, ctrl.RunStep(context.Background()))
}

func TestStepController_MalformedReply_PostsFallbackPollWithoutAdvancingStory(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	story := "Текущая история."
	store.On("Load").Return(&state.StoryState{
		CurrentStory:      story,
		LastPollMessageID: intPtr(30),
	}, nil).Once()
	messenger.On("StopPoll", mock.Anything, 30).Return(pollWithVotes(3, 0, 0, 0), nil).Once()
	ai.On("GenerateContinuation", mock.Anything, story, "Вариант ноль").
		Return(nil, generator.ErrMalformedReply).Once()

	// Сегмент НЕ публикуется, история НЕ продвигается, но фолбэк-опрос создается
	messenger.On("SendPoll", mock.Anything, testQuestion, generator.FallbackOptions()).Return(31, nil).Once()
	store.On("Save", &state.StoryState{
		CurrentStory:      story,
		LastPollMessageID: intPtr(31),
	}).Return(nil).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	require.NoError(t, ctrl.RunStep(context.Background()))
}

func TestStepController_GenerationNetworkError_AbortsWithoutSaving(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	store.On("Load").Return(&state.StoryState{
		CurrentStory:      "История.",
		LastPollMessageID: intPtr(40),
	}, nil).Once()
	messenger.On("StopPoll", mock.Anything, 40).Return(pollWithVotes(1, 0, 0, 0), nil).Once()
	ai.On("GenerateContinuation", mock.Anything, "История.", "Вариант ноль").
		Return(nil, generator.ErrGenerationFailed).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	err := ctrl.RunStep(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrGenerationFailed)
	// Save не вызывался — состояние не тронуто (проверяется AssertExpectations)
}

func TestStepController_StopPollFailure_UsesSeedAsHint(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	story := "История."
	store.On("Load").Return(&state.StoryState{
		CurrentStory:      story,
		LastPollMessageID: intPtr(50),
	}, nil).Once()
	messenger.On("StopPoll", mock.Anything, 50).
		Return(nil, errors.New("poll has already been closed")).Once()

	cont := &generator.Continuation{
		NextSegment: "Сегмент.",
		Options:     []string{"Вариант один", "Вариант два", "Вариант три", "Вариант четыре"},
	}
	// Победителя нет — подсказкой служит стартовая идея
	ai.On("GenerateContinuation", mock.Anything, story, testSeed).Return(cont, nil).Once()
	messenger.On("SendMessage", mock.Anything, "Сегмент.").Return(51, nil).Once()
	messenger.On("SendPoll", mock.Anything, testQuestion, cont.Options).Return(52, nil).Once()
	store.On("Save", mock.AnythingOfType("*state.StoryState")).Return(nil).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	require.NoError(t, ctrl.RunStep(context.Background()))
}

func TestStepController_SendPollFailure_AbortsWithoutSaving(t *testing.T) {
	store := mocks.NewMockStateStore(t)
	messenger := mocks.NewMockMessenger(t)
	ai := mocks.NewMockAIClient(t)

	store.On("Load").Return(&state.StoryState{}, nil).Once()
	messenger.On("SendMessage", mock.Anything, testSeed).Return(10, nil).Once()
	ai.On("GenerateOptions", mock.Anything, testSeed).
		Return([]string{"Вариант один", "Вариант два", "Вариант три", "Вариант четыре"}, nil).Once()
	messenger.On("SendPoll", mock.Anything, testQuestion, mock.Anything).
		Return(0, errors.New("network unreachable")).Once()

	ctrl := bot.NewStepController(store, messenger, ai, testSeed, rand.New(rand.NewSource(1)))
	require.Error(t, ctrl.RunStep(context.Background()))
}
