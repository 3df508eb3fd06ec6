// Package metrics declares the server's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "secondbrain"

const (
	NameSharesCreated     = "shares_created_total"
	NameShareResolutions  = "share_resolutions_total"
	NameContentMutations  = "content_mutations_total"
	NameRequestErrors     = "request_errors_total"
	NameRateLimitRejected = "rate_limit_rejected_total"
	NameExports           = "exports_total"

	LabelResult    = "result"
	LabelOperation = "operation"
	LabelStatus    = "status"
)

// Share resolution results.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultGone     = "gone"
	ResultError    = "error"
)

var SharesCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameSharesCreated,
		Help:      "Share links created",
		Namespace: Namespace,
	},
)

var ShareResolutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameShareResolutions,
		Help:      "Public share resolutions by result",
		Namespace: Namespace,
	},
	[]string{LabelResult},
)

var ContentMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameContentMutations,
		Help:      "Successful content creates, updates and deletes",
		Namespace: Namespace,
	},
	[]string{LabelOperation},
)

var RequestErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameRequestErrors,
		Help:      "API error responses by HTTP status",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var RateLimitRejected = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameRateLimitRejected,
		Help:      "Requests rejected by the per-client rate limiter",
		Namespace: Namespace,
	},
)

var Exports = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameExports,
		Help:      "Export requests by result",
		Namespace: Namespace,
	},
	[]string{LabelResult},
)
