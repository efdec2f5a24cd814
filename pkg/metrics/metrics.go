package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docshub", Name: "documents_created_total", Help: "Number of documents created."},
	)
	DocumentsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docshub", Name: "documents_deleted_total", Help: "Number of documents deleted."},
	)
	Uploads = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docshub", Name: "uploads_total", Help: "Number of files uploaded."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docshub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docshub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DocumentsCreated)
	reg.MustRegister(DocumentsDeleted)
	reg.MustRegister(Uploads)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
