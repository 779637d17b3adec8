package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	DocumentWrites  *prometheus.CounterVec
	Summaries       *prometheus.CounterVec
}

// New creates the metrics on a private registry, so routers built in tests
// never collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "daybook_users_registered_total",
			Help: "Total number of users registered",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "daybook_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		DocumentWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "daybook_document_writes_total",
			Help: "Whole-document replace writes by result",
		}, []string{"result"}),
		Summaries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "daybook_summaries_total",
			Help: "Journal summary requests by result",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
