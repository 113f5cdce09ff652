package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LifecycleMetrics содержит метрики жизненного цикла заявок и споров.
type LifecycleMetrics struct {
	JobsCreatedTotal              prometheus.Counter
	QuotesSubmittedTotal          prometheus.Counter
	AwardsTotal                   *prometheus.CounterVec
	MilestonesReleasedTotal       prometheus.Counter
	MilestonesReleasedAmountTotal prometheus.Counter
	DisputesOpenedTotal           prometheus.Counter
	DisputesOpenGauge             prometheus.Gauge
	TransitionErrorsTotal         *prometheus.CounterVec
}

// NewLifecycleMetrics создает и регистрирует метрики.
func NewLifecycleMetrics() *LifecycleMetrics {
	return &LifecycleMetrics{
		JobsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "jobs_created_total",
			Help: "Общее количество созданных заявок",
		}),
		QuotesSubmittedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "quotes_submitted_total",
			Help: "Общее количество поданных откликов",
		}),
		AwardsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "awards_total",
			Help: "Количество назначений исполнителя по типам (with_milestone/without_milestone)",
		}, []string{"kind"}),
		MilestonesReleasedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "milestones_released_total",
			Help: "Количество выплаченных этапов",
		}),
		MilestonesReleasedAmountTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "milestones_released_amount_total",
			Help: "Общая сумма выплаченных этапов в минорных единицах",
		}),
		DisputesOpenedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "disputes_opened_total",
			Help: "Общее количество открытых споров",
		}),
		DisputesOpenGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "disputes_open",
			Help: "Текущее количество открытых споров",
		}),
		TransitionErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_transition_errors_total",
			Help: "Количество отклонённых переходов по сущностям",
		}, []string{"entity"}),
	}
}

// RecordJobCreated записывает созданную заявку.
func (m *LifecycleMetrics) RecordJobCreated() {
	if m == nil {
		return
	}
	m.JobsCreatedTotal.Inc()
}

// RecordQuoteSubmitted записывает поданный отклик.
func (m *LifecycleMetrics) RecordQuoteSubmitted() {
	if m == nil {
		return
	}
	m.QuotesSubmittedTotal.Inc()
}

// RecordAward записывает назначение исполнителя.
func (m *LifecycleMetrics) RecordAward(kind string) {
	if m == nil {
		return
	}
	m.AwardsTotal.WithLabelValues(kind).Inc()
}

// RecordMilestoneReleased записывает выплату этапа.
func (m *LifecycleMetrics) RecordMilestoneReleased(amount int64) {
	if m == nil {
		return
	}
	m.MilestonesReleasedTotal.Inc()
	m.MilestonesReleasedAmountTotal.Add(float64(amount))
}

// RecordDisputeOpened записывает открытие спора.
func (m *LifecycleMetrics) RecordDisputeOpened() {
	if m == nil {
		return
	}
	m.DisputesOpenedTotal.Inc()
	m.DisputesOpenGauge.Inc()
}

// RecordDisputeSettled записывает закрытие спора.
func (m *LifecycleMetrics) RecordDisputeSettled() {
	if m == nil {
		return
	}
	m.DisputesOpenGauge.Dec()
}

// RecordTransitionError записывает отклонённый переход.
func (m *LifecycleMetrics) RecordTransitionError(entity string) {
	if m == nil {
		return
	}
	m.TransitionErrorsTotal.WithLabelValues(entity).Inc()
}
