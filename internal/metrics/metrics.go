package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TAXIIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxii_requests_total",
			Help: "TAXII API requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	ObjectsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taxii_objects_served_total",
			Help: "STIX objects returned in bundles",
		},
	)

	ObjectsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxii_objects_ingested_total",
			Help: "STIX objects processed by the ingestion writer",
		},
		[]string{"result"},
	)
)
