package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "frontdesk", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "frontdesk", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	HTTPThrottled = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "frontdesk", Name: "http_throttled_total", Help: "Requests rejected by the rate limiter."},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "frontdesk", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	HousekeepingActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "frontdesk", Name: "housekeeping_actions_total", Help: "Housekeeping and rate edits applied to rooms."},
		[]string{"action"},
	)
	RoomChargesPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "frontdesk", Name: "room_charges_posted_total", Help: "Room-night charge attempts by outcome."},
		[]string{"result"}, // result: posted|skipped|unpriced|failed
	)
)

// Serve exposes reg on its own listener; an empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, HTTPThrottled, CacheEvents, HousekeepingActions, RoomChargesPosted)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveThrottled() { HTTPThrottled.Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// ObserveHousekeeping counts one applied room action (clean, dirty, list, status, rate).
func ObserveHousekeeping(action string) {
	HousekeepingActions.WithLabelValues(action).Inc()
}

func ObserveRoomCharge(result string) {
	RoomChargesPosted.WithLabelValues(result).Inc()
}
