package engine

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	frames       prometheus.Counter
	frameSeconds prometheus.Histogram
	events       *prometheus.CounterVec
	panics       prometheus.Counter
	nodes        prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stage",
			Name:      "frames_total",
			Help:      "Frames run by the runtime.",
		}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stage",
			Name:      "frame_duration_seconds",
			Help:      "Wall time of each frame.",
			Buckets:   []float64{.001, .004, .008, .016, .033, .066, .1, .25},
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stage",
			Name:      "input_events_total",
			Help:      "Host events routed into the tree, by kind.",
		}, []string{"kind"}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stage",
			Name:      "frame_panics_total",
			Help:      "Panics recovered while running a frame.",
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stage",
			Name:      "nodes",
			Help:      "Nodes reachable from the root after the last frame.",
		}),
	}
	reg.MustRegister(m.frames, m.frameSeconds, m.events, m.panics, m.nodes)
	return m
}
