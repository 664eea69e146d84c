package psimod

import (
	"github.com/prometheus/client_golang/prometheus"
	metrics "github.com/rcrowley/go-metrics"
)

var (
	loadTimer    = metrics.GetOrRegisterTimer("psimod.load.duration", metrics.DefaultRegistry)
	termGauge    = metrics.GetOrRegisterGauge("psimod.terms", metrics.DefaultRegistry)
	loadFailures = metrics.GetOrRegisterCounter("psimod.load.failures", metrics.DefaultRegistry)

	loadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psimod",
		Subsystem: "ontology",
		Name:      "loads_total",
		Help:      "Ontology loads by outcome",
	}, []string{"outcome"})

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psimod",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method and status code",
	}, []string{"method", "code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "psimod",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(loadsTotal, requestsTotal, requestDuration)
}
