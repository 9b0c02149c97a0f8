package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	CacheRequestTotal          = "cache_requests_total"
	SagaStepTotal              = "saga_steps_total"
	SagaCompensationTotal      = "saga_compensations_total"
	CardCollisionTotal         = "card_generate_collisions_total"
	CardGenerateAttempts       = "card_generate_attempts"
	EventNotificationTotal     = "event_notifications_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		CacheRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CacheRequestTotal,
			Help: "Count of cache lookups by result",
		}, []string{"result"}),
		SagaStepTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SagaStepTotal,
			Help: "Count of saga steps by result",
		}, []string{"workflow", "step", "result"}),
		SagaCompensationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SagaCompensationTotal,
			Help: "Count of saga compensations by result",
		}, []string{"workflow", "step", "result"}),
		CardCollisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CardCollisionTotal,
			Help: "Count of generated cards discarded because of a duplicated grid",
		}, []string{"source"}),
		EventNotificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EventNotificationTotal,
			Help: "Count of event notifications by type and result",
		}, []string{"type", "result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
		CardGenerateAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    CardGenerateAttempts,
			Help:    "Number of attempts needed to generate a unique card",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
		}, []string{"result"}),
	}

	PromSummaries = map[string]*prometheus.SummaryVec{}
)
