package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	registry     *prom.Registry
	repairs      prom.Counter
	writes       *prom.CounterVec
	duplicates   prom.Counter
	itemsDeleted prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.repairs = prom.NewCounter(prom.CounterOpts{
			Namespace: "watchlater",
			Name:      "state_repairs_total",
			Help:      "Loads whose persisted state needed normalization",
		})
		pr.writes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "watchlater",
			Name:      "state_writes_total",
			Help:      "State writes by result",
		}, []string{"result"})
		pr.duplicates = prom.NewCounter(prom.CounterOpts{
			Namespace: "watchlater",
			Name:      "duplicate_items_total",
			Help:      "AddItem calls answered with an existing item",
		})
		pr.itemsDeleted = prom.NewCounter(prom.CounterOpts{
			Namespace: "watchlater",
			Name:      "items_deleted_total",
			Help:      "Items removed by DeleteMany",
		})
		reg.MustRegister(pr.repairs, pr.writes, pr.duplicates, pr.itemsDeleted)
	})
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncStateRepair() {
	if p == nil || p.repairs == nil {
		return
	}
	p.repairs.Inc()
}

func (p *PrometheusRecorder) IncStateWrite(result WriteResult) {
	if p == nil || p.writes == nil {
		return
	}
	p.writes.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncDuplicateItem() {
	if p == nil || p.duplicates == nil {
		return
	}
	p.duplicates.Inc()
}

func (p *PrometheusRecorder) AddItemsDeleted(n int) {
	if p == nil || p.itemsDeleted == nil || n <= 0 {
		return
	}
	p.itemsDeleted.Add(float64(n))
}
