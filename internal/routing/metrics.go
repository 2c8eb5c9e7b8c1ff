package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var routeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "realms",
	Name:      "route_requests_total",
	Help:      "Realm router requests by route and outcome.",
}, []string{"route", "outcome"})

func observe(route RouteName, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	routeOutcomes.WithLabelValues(string(route), outcome).Inc()
}
