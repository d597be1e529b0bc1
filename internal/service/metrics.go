package service

import (
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты загрузки для метрик
const (
	resultOK      = "ok"
	resultPartial = "partial"
	resultFailed  = "failed"
)

// Metrics метрики загрузок и запросов к справочнику
type Metrics struct {
	ingestions *prometheus.CounterVec
	rows       *prometheus.CounterVec
	mentors    prometheus.Gauge
	duration   prometheus.Histogram
	searches   prometheus.Counter
}

// NewMetrics регистрирует метрики в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentors_ingestions_total",
			Help: "Spreadsheet ingestions by result.",
		}, []string{"result"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentors_ingested_rows_total",
			Help: "Spreadsheet rows processed by status.",
		}, []string{"status"}),
		mentors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mentors_directory_size",
			Help: "Mentors currently in the directory.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mentors_ingestion_duration_seconds",
			Help:    "Time spent normalizing and publishing a spreadsheet.",
			Buckets: prometheus.DefBuckets,
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mentors_skill_searches_total",
			Help: "Skill searches served.",
		}),
	}

	reg.MustRegister(m.ingestions, m.rows, m.mentors, m.duration, m.searches)

	// Нулевые значения, чтобы rate() работал с первой ошибки
	for _, result := range []string{resultOK, resultPartial, resultFailed} {
		m.ingestions.WithLabelValues(result).Add(0)
	}
	return m
}

func (m *Metrics) observeReport(report *model.IngestionReport) {
	result := resultOK
	if report.RowsFailed > 0 {
		result = resultPartial
	}
	m.ingestions.WithLabelValues(result).Inc()
	m.rows.WithLabelValues("ok").Add(float64(report.RowsOK))
	m.rows.WithLabelValues("failed").Add(float64(report.RowsFailed))
	m.mentors.Set(float64(report.Mentors))
	m.duration.Observe(report.Duration().Seconds())
}

func (m *Metrics) observeFailure() {
	m.ingestions.WithLabelValues(resultFailed).Inc()
}

func (m *Metrics) observeSearch() {
	m.searches.Inc()
}
