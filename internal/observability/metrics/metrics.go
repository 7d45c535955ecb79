package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters for the scheduling engine.
type ChatMetrics struct {
	outcomesTotal   *prometheus.CounterVec
	extractionTotal *prometheus.CounterVec
	llmTotal        *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "outcomes_total",
			Help:      "Terminal outcomes of chat scheduling requests",
		}, []string{"kind"}),
		extractionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "extraction_total",
			Help:      "Date/time extraction attempts by result",
		}, []string{"field", "matched"}),
		llmTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "llm_requests_total",
			Help:      "Generative responder requests by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomesTotal, m.extractionTotal, m.llmTotal)
	return m
}

func (m *ChatMetrics) ObserveOutcome(kind string) {
	if m == nil {
		return
	}
	m.outcomesTotal.WithLabelValues(kind).Inc()
}

func (m *ChatMetrics) ObserveExtraction(field string, matched bool) {
	if m == nil {
		return
	}
	label := "false"
	if matched {
		label = "true"
	}
	m.extractionTotal.WithLabelValues(field, label).Inc()
}

func (m *ChatMetrics) ObserveLLM(status string) {
	if m == nil {
		return
	}
	m.llmTotal.WithLabelValues(status).Inc()
}
