package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the case-note module.
type Metrics struct {
	NotesCreated      prometheus.Counter
	AmendmentsAdded   prometheus.Counter
	SubjectsMerged    prometheus.Counter
	NotesPurged       prometheus.Counter
	SearchDuration    prometheus.Histogram
	CreateDuration    prometheus.Histogram
	BulkOpDuration    prometheus.Histogram
	EventPublishFails prometheus.Counter
}

// New creates a Metrics instance with all case-note metrics registered.
func New() *Metrics {
	return &Metrics{
		NotesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casenotes_notes_created_total",
			Help: "Total number of case notes created",
		}),
		AmendmentsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casenotes_amendments_added_total",
			Help: "Total number of amendments appended to case notes",
		}),
		SubjectsMerged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casenotes_subject_merges_total",
			Help: "Total number of subject identifier merge operations",
		}),
		NotesPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casenotes_notes_purged_total",
			Help: "Total number of case notes hard-deleted by subject purge",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casenotes_search_duration_seconds",
			Help:    "Duration of filtered case note searches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casenotes_create_duration_seconds",
			Help:    "Duration of case note creation including event id allocation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BulkOpDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casenotes_bulk_op_duration_seconds",
			Help:    "Duration of bulk merge and purge operations",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		EventPublishFails: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casenotes_event_publish_failures_total",
			Help: "Total number of case note events that failed to publish",
		}),
	}
}

// ObserveSearch records the duration of a filtered search.
func (m *Metrics) ObserveSearch(start time.Time) {
	m.SearchDuration.Observe(time.Since(start).Seconds())
}

// ObserveCreate records the duration of a note creation.
func (m *Metrics) ObserveCreate(start time.Time) {
	m.CreateDuration.Observe(time.Since(start).Seconds())
}

// ObserveBulkOp records the duration of a merge or purge.
func (m *Metrics) ObserveBulkOp(start time.Time) {
	m.BulkOpDuration.Observe(time.Since(start).Seconds())
}
