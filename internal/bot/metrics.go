package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "story_bot_steps_started_total",
			Help: "Total number of story steps started.",
		},
	)
	stepsSucceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "story_bot_steps_succeeded_total",
			Help: "Total number of story steps completed successfully.",
		},
	)
	stepsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_bot_steps_failed_total",
			Help: "Total number of failed story steps, partitioned by failure reason.",
		},
		[]string{"reason"},
	)
	winnersResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_bot_poll_winners_resolved_total",
			Help: "Total number of poll winners resolved, partitioned by resolution mode.",
		},
		[]string{"mode"},
	)
)

// MetricsIncrementStepsStarted увеличивает счетчик начатых шагов
func MetricsIncrementStepsStarted() {
	stepsStarted.Inc()
}

// MetricsIncrementStepSucceeded увеличивает счетчик успешных шагов
func MetricsIncrementStepSucceeded() {
	stepsSucceeded.Inc()
}

// MetricsIncrementStepFailed увеличивает счетчик неудачных шагов для указанной причины
func MetricsIncrementStepFailed(reason string) {
	stepsFailed.WithLabelValues(reason).Inc()
}

// MetricsIncrementWinnerResolved увеличивает счетчик определений победителя по режиму
func MetricsIncrementWinnerResolved(mode string) {
	winnersResolved.WithLabelValues(mode).Inc()
}
