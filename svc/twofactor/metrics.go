package twofactor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeLocked  = "locked"
	outcomeError   = "error"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	OperationsTotal    *prometheus.CounterVec
	BackupCodesUsed    prometheus.Counter
	LockoutsTotal      prometheus.Counter
	EnrollmentsStarted prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcase_twofactor_operations_total",
				Help: "Two-factor operations by operation, proof method and outcome",
			},
			[]string{"operation", "method", "outcome"},
		),
		BackupCodesUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexcase_twofactor_backup_codes_used_total",
			Help: "Backup codes consumed",
		}),
		LockoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexcase_twofactor_lockouts_total",
			Help: "Attempts refused by the failed-attempt ceiling",
		}),
		EnrollmentsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexcase_twofactor_enrollments_started_total",
			Help: "Setup calls that issued a new secret",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.OperationsTotal, m.BackupCodesUsed, m.LockoutsTotal, m.EnrollmentsStarted)
	}
	return m
}

func (m *Metrics) observe(op, method, outcome string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(op, method, outcome).Inc()
	switch {
	case outcome == outcomeLocked:
		m.LockoutsTotal.Inc()
	case outcome == outcomeSuccess && method == methodBackupCode:
		m.BackupCodesUsed.Inc()
	case outcome == outcomeSuccess && op == opSetup:
		m.EnrollmentsStarted.Inc()
	}
}
