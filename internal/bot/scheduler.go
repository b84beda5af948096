package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StepRunner — то, что планировщик запускает каждую итерацию
type StepRunner interface {
	RunStep(ctx context.Context) error
}

// SleepFunc ждет d или отмену контекста; возвращает false при отмене.
// Инжектируется, чтобы тесты цикла не зависели от реального времени.
type SleepFunc func(ctx context.Context, d time.Duration) bool

// defaultSleep — сон с поддержкой отмены контекста
func defaultSleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Scheduler запускает шаги истории: однократно (для внешнего cron)
// или в бесконечном цикле с паузой между итерациями.
type Scheduler struct {
	runner   StepRunner
	interval time.Duration
	sleep    SleepFunc
}

// NewScheduler создает планировщик с указанным интервалом между шагами
func NewScheduler(runner StepRunner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		sleep:    defaultSleep,
	}
}

// WithSleep заменяет функцию ожидания (используется в тестах)
func (s *Scheduler) WithSleep(sleep SleepFunc) *Scheduler {
	s.sleep = sleep
	return s
}

// RunOnce выполняет ровно один шаг; ошибку транслирует вызывающему
// (в single-shot режиме она превращается в ненулевой код выхода)
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.runner.RunStep(ctx)
}

// RunForever крутит шаги до отмены контекста.
// Ошибка отдельного шага логируется, процесс продолжает работу.
func (s *Scheduler) RunForever(ctx context.Context) {
	for {
		if err := s.runner.RunStep(ctx); err != nil {
			log.Error().Err(err).Msg("Шаг истории завершился с ошибкой, продолжаем")
		}

		log.Info().Dur("interval", s.interval).Msg("Ждем до следующего шага истории")
		if !s.sleep(ctx, s.interval) {
			log.Info().Msg("Контекст отменен, цикл истории остановлен")
			return
		}
	}
}
