package vault

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects vault activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	deposits      *prometheus.CounterVec
	depositValue  *prometheus.CounterVec
	payouts       *prometheus.CounterVec
	payoutValue   *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	roundingDust  *prometheus.GaugeVec
	roundsStarted prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsRegistry *Metrics
)

// DefaultMetrics returns the process wide metrics, registered with the
// default prometheus registry on first use.
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsRegistry = NewMetrics(prometheus.DefaultRegisterer)
	})
	return metricsRegistry
}

// NewMetrics creates the vault collectors and registers them with given
// registerer. It panics if any of them is already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vault_deposits_total",
			Help: "Count of accepted deposits by vault kind.",
		}, []string{"kind"}),
		depositValue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vault_deposit_value_total",
			Help: "Value of accepted deposits by ticker.",
		}, []string{"ticker"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vault_payouts_total",
			Help: "Count of payout transfers by policy.",
		}, []string{"policy"}),
		payoutValue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vault_payout_value_total",
			Help: "Value paid out of custody accounts by ticker.",
		}, []string{"ticker"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vault_rejected_operations_total",
			Help: "Count of rejected vault operations by operation and error code.",
		}, []string{"operation", "code"}),
		roundingDust: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vault_rounding_dust",
			Help: "Rounding remainder left on the custody account by the last ratio or equal distribution of a vault.",
		}, []string{"vault", "ticker"}),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vault_rounds_started_total",
			Help: "Count of started deposit rounds.",
		}),
	}
	reg.MustRegister(
		m.deposits,
		m.depositValue,
		m.payouts,
		m.payoutValue,
		m.rejections,
		m.roundingDust,
		m.roundsStarted,
	)
	return m
}

func (m *Metrics) ObserveDeposit(kind Kind, amount coin.Coin) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(kind.String()).Inc()
	m.depositValue.WithLabelValues(amount.Ticker).Add(toFloat(amount))
}

func (m *Metrics) ObservePayouts(policy Policy, payouts []Payout) {
	if m == nil {
		return
	}
	for _, p := range payouts {
		m.payouts.WithLabelValues(policy.String()).Inc()
		m.payoutValue.WithLabelValues(p.Amount.Ticker).Add(toFloat(p.Amount))
	}
}

// ObserveRoundingDust records what a distribution of given vault left on
// its custody account. The previous value of that vault is replaced.
func (m *Metrics) ObserveRoundingDust(seed []byte, dust coin.Coin) {
	if m == nil {
		return
	}
	m.roundingDust.WithLabelValues(fmt.Sprintf("%X", seed), dust.Ticker).Set(toFloat(dust))
}

func (m *Metrics) ObserveRoundStarted() {
	if m == nil {
		return
	}
	m.roundsStarted.Inc()
}

func (m *Metrics) ObserveRejection(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	code, _ := errors.ABCIInfo(err, false)
	m.rejections.WithLabelValues(operation, strconv.FormatUint(uint64(code), 10)).Inc()
}

func toFloat(c coin.Coin) float64 {
	return float64(c.Whole) + float64(c.Fractional)/float64(coin.FracUnit)
}
