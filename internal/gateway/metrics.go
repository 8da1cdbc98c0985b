// internal/gateway/metrics.go
package gateway

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "irisgate_requests_total",
	Help: "Gateway requests by classified intent and response status.",
}, []string{"intent", "status"})

// statusRecorder captures the status code written by a handler so the
// dispatch loop can label its counter after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func observe(intent Intent, rec *statusRecorder) {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	requestsTotal.WithLabelValues(intent.String(), strconv.Itoa(status)).Inc()
}
