package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(RegistryAttach) }

// result: attached|duplicate|rejected|error
var RegistryAttach = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "registry_attach_total",
		Help: "Attach attempts against the purchase-code registry by result.",
	},
	[]string{"result"},
)

func IncAttach(result string) {
	RegistryAttach.WithLabelValues(norm(result)).Inc()
}
