package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odbyte_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// PaymentVerifications counts gateway callback verification outcomes.
	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odbyte_payment_verifications_total",
		Help: "Total number of payment signature verifications by result",
	}, []string{"result"})

	// QuotaRejections counts plan-limit rejections by resource type.
	QuotaRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odbyte_quota_rejections_total",
		Help: "Total number of creations rejected by plan quota",
	}, []string{"resource"})
)
