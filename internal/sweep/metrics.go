package sweep

import "github.com/prometheus/client_golang/prometheus"

var (
	sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netscan_sweeps_total",
			Help: "Total number of discovery sweeps by terminal status.",
		},
		[]string{"status"},
	)
	lastSweepDevices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netscan_last_sweep_devices",
			Help: "Number of devices found by the most recent completed sweep.",
		},
	)
	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netscan_sweep_duration_seconds",
			Help:    "Wall-clock duration of completed sweeps.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(sweepsTotal)
	prometheus.MustRegister(lastSweepDevices)
	prometheus.MustRegister(sweepDuration)
}
