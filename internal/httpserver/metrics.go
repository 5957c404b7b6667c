package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cartOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations and reads by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

func countCartOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	cartOpsTotal.WithLabelValues(op, outcome).Inc()
}
