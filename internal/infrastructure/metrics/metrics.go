// Package metrics expone métricas Prometheus del cliente API y del gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registry propio con las métricas de FacturaPro. Todos los métodos aceptan receptor nil.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
}

// New inicializa el registry y las métricas.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturapro_api_requests_total",
		Help: "Llamadas al backend por recurso, método y status (code=0 si falló el transporte).",
	}, []string{"resource", "method", "code"})
	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "facturapro_api_request_duration_seconds",
		Help:    "Duración de las llamadas al backend por recurso.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	gatewayRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturapro_gateway_requests_total",
		Help: "Peticiones atendidas por el gateway por ruta y status.",
	}, []string{"route", "code"})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "facturapro_gateway_request_duration_seconds",
		Help:    "Duración de las peticiones del gateway por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	registry.MustRegister(apiRequests, apiDuration, gatewayRequests, gatewayDuration)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		apiRequests:     apiRequests,
		apiDuration:     apiDuration,
		gatewayRequests: gatewayRequests,
		gatewayDuration: gatewayDuration,
	}
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveAPI registra una llamada al backend.
func (m *Metrics) ObserveAPI(resource, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(resource, method, strconv.Itoa(code)).Inc()
	m.apiDuration.WithLabelValues(resource).Observe(d.Seconds())
}

// ObserveGateway registra una petición atendida por el gateway.
func (m *Metrics) ObserveGateway(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.gatewayDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registerer expone el registry para métricas adicionales.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
