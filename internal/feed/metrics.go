package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestsTotal counts feed requests by route pattern and status code.
var RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "salesboard",
	Subsystem: "feed",
	Name:      "requests_total",
	Help:      "Total HTTP requests served by the feed.",
}, []string{"route", "code"})

// RecordsServed counts task records written to /tasks.json responses.
var RecordsServed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "salesboard",
	Subsystem: "feed",
	Name:      "records_served_total",
	Help:      "Total task records served.",
})

// RecordsAvailable is the size of the current record set.
var RecordsAvailable = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "salesboard",
	Subsystem: "feed",
	Name:      "records_available",
	Help:      "Number of task records the feed currently serves.",
})

// Reloads counts source reloads by outcome.
var Reloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "salesboard",
	Subsystem: "feed",
	Name:      "reloads_total",
	Help:      "Source file reloads by result.",
}, []string{"result"})
