package keeper

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/amm/x/amm/types"
)

// Metrics holds all Prometheus metrics for the AMM engine.
type Metrics struct {
	// Operation metrics
	OpsTotal  *prometheus.CounterVec
	OpLatency *prometheus.HistogramVec

	// Swap metrics
	SwapVolume *prometheus.CounterVec

	// Pool metrics
	PoolsCreated prometheus.Counter

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers engine metrics (singleton pattern).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			OpsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "amm",
					Name:      "operations_total",
					Help:      "Engine operations by kind and outcome",
				},
				[]string{"op", "status"},
			),
			OpLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "amm",
					Name:      "operation_latency_seconds",
					Help:      "Operation execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"op"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume by denom",
				},
				[]string{"denom"},
			),
			PoolsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "amm",
					Name:      "pools_created_total",
					Help:      "Total number of pools created",
				},
			),
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "amm",
					Name:      "errors_total",
					Help:      "Operation failures by error kind",
				},
				[]string{"op", "kind"},
			),
		}
	})
	return metrics
}

// trackOp records latency and outcome for one engine operation. Deferred at
// the top of every public mutating method so failures are counted by kind.
func (k *Keeper) trackOp(op string, start time.Time, err *error) {
	k.metrics.OpLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil || *err == nil {
		k.metrics.OpsTotal.WithLabelValues(op, "success").Inc()
		return
	}
	k.metrics.OpsTotal.WithLabelValues(op, "failed").Inc()
	k.metrics.ErrorsTotal.WithLabelValues(op, errorKind(*err)).Inc()
}

// errorKind maps an error to the sentinel it wraps, for the error counter.
func errorKind(err error) string {
	switch {
	case types.ErrInvalidAmount.Is(err):
		return "invalid_amount"
	case types.ErrInvalidFee.Is(err):
		return "invalid_fee"
	case types.ErrInvalidDenom.Is(err):
		return "invalid_denom"
	case types.ErrPoolNotFound.Is(err):
		return "pool_not_found"
	case types.ErrUnauthorized.Is(err):
		return "unauthorized"
	case types.ErrInsufficientLiquidity.Is(err):
		return "insufficient_liquidity"
	case types.ErrInsufficientShares.Is(err):
		return "insufficient_shares"
	case types.ErrOverflow.Is(err):
		return "overflow"
	case types.ErrInvalidAddress.Is(err):
		return "invalid_address"
	default:
		return "other"
	}
}
