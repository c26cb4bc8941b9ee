package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(registryPoolConns) }

// registryPoolConns tracks the pgx pool backing the purchase-code registry.
var registryPoolConns = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "purchase_registry_db_pool_conns",
		Help: "Connections in the registry store pool by state.",
	},
	[]string{"state"}, // total|idle|acquired
)

// SetDBPoolStats is fed by postgres.ReportPoolStats.
func SetDBPoolStats(total, idle, acquired int32) {
	registryPoolConns.WithLabelValues("total").Set(float64(total))
	registryPoolConns.WithLabelValues("idle").Set(float64(idle))
	registryPoolConns.WithLabelValues("acquired").Set(float64(acquired))
}
