package kvstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oficina_kvstore_operations_total",
			Help: "Operações no armazenamento chave-valor por backend, operação e resultado",
		},
		[]string{"backend", "op", "result"},
	)

	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oficina_kvstore_operation_duration_seconds",
			Help:    "Duração das operações no armazenamento chave-valor",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
)

// Instrumented envolve um Store e exporta métricas Prometheus de cada chamada.
type Instrumented struct {
	next    Store
	backend string
}

func NewInstrumented(next Store, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

func (s *Instrumented) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return val, err
}

func (s *Instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *Instrumented) SetMany(ctx context.Context, entries map[string]string) error {
	start := time.Now()
	err := s.next.SetMany(ctx, entries)
	s.observe("set_many", start, err)
	return err
}

func (s *Instrumented) Close() error {
	return s.next.Close()
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	storeOpDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	storeOpsTotal.WithLabelValues(s.backend, op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}

var _ Store = (*Instrumented)(nil)
