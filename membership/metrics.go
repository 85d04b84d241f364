package membership

import "github.com/prometheus/client_golang/prometheus"

var (
	membersGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "roster",
		Name:      "members",
		Help:      "Number of members in the local roster.",
	}, []string{"host"})
	eventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "membership_events_total",
		Help:      "Membership events applied to the local roster.",
	}, []string{"host", "event"})
	failuresCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "propagation_failures_total",
		Help:      "Membership messages that could not be delivered.",
	}, []string{"host", "procedure"})
)

func init() {
	prometheus.MustRegister(membersGauge, eventsCounter, failuresCounter)
}
