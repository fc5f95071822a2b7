package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
)

// Recorder counts ledger operations. A nil *Recorder is a no-op so services
// can run without metrics in tests.
type Recorder struct {
	registered prometheus.Counter
	events     *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// New registers the ledger collectors on reg. The batch gauge reads current
// counts from q on every scrape.
func New(reg prometheus.Registerer, q *ledger.Query) *Recorder {
	r := &Recorder{
		registered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agritrace",
			Name:      "batches_registered_total",
			Help:      "Batches registered by farmers.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agritrace",
			Name:      "events_recorded_total",
			Help:      "Events appended to batch logs, by status.",
		}, []string{"status", "correction"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agritrace",
			Name:      "rejections_total",
			Help:      "Ledger operations rejected, by operation and error kind.",
		}, []string{"op", "kind"}),
	}
	reg.MustRegister(r.registered, r.events, r.rejections, &statusCollector{q: q})
	return r
}

func (r *Recorder) Registered() {
	if r == nil {
		return
	}
	r.registered.Inc()
}

func (r *Recorder) Recorded(e domain.Event) {
	if r == nil {
		return
	}
	correction := "false"
	if e.Correction {
		correction = "true"
	}
	r.events.WithLabelValues(e.Status.String(), correction).Inc()
}

func (r *Recorder) Rejected(op string, err error) {
	if r == nil || err == nil {
		return
	}
	r.rejections.WithLabelValues(op, ledger.Kind(err)).Inc()
}

var batchesDesc = prometheus.NewDesc(
	"agritrace_batches",
	"Batches currently in each status.",
	[]string{"status"}, nil,
)

type statusCollector struct {
	q *ledger.Query
}

func (c *statusCollector) Describe(ch chan<- *prometheus.Desc) { ch <- batchesDesc }

func (c *statusCollector) Collect(ch chan<- prometheus.Metric) {
	counts := c.q.Counts()
	for _, s := range domain.Statuses() {
		ch <- prometheus.MustNewConstMetric(batchesDesc, prometheus.GaugeValue, float64(counts[s]), s.String())
	}
}
