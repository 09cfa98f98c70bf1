package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "abeep_active_sessions",
		Help: "Number of playback sessions holding a sink",
	})
)

// Counters
var (
	FramesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abeep_frames_written_total",
		Help: "Total frames accepted by sinks",
	})
	FramesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abeep_frames_dropped_total",
		Help: "Total buffered frames discarded after an underrun",
	})
	UnderrunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abeep_underruns_total",
		Help: "Total sink underruns recovered from",
	})
	FlushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abeep_flushes_total",
		Help: "Total stream buffer flushes",
	})
	FramesSynthesizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abeep_frames_synthesized_total",
		Help: "Total frames synthesized by kind",
	}, []string{"kind"})
	TonesPlayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abeep_tones_played_total",
		Help: "Total tone requests played to completion",
	})
	PlaybacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abeep_playbacks_total",
		Help: "Total playbacks by outcome",
	}, []string{"outcome"})
)

// Histograms
var (
	PlaybackDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "abeep_playback_duration_ms",
		Help:    "Wall-clock playback duration in milliseconds, drain included",
		Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
	})
)
