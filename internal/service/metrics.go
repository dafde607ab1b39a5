package service

import "github.com/prometheus/client_golang/prometheus"

const (
	opCreate = "create"
	opRead   = "read"
	opUpdate = "update"
	opDelete = "delete"
)

// Metrics counts store round-trips by operation and outcome ("ok" or "error").
// Because store errors are swallowed, this counter is the only place they surface.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics creates and registers the service collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "animal_store_operations_total",
				Help: "Animal store operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
	if err := reg.Register(m.operations); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}
