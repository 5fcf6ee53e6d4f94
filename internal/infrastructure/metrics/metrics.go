package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sketchaa",
		Name:      "rooms_active",
		Help:      "Number of rooms currently held in memory.",
	})

	ClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sketchaa",
		Name:      "clients_connected",
		Help:      "Number of open websocket connections.",
	})

	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "games_started_total",
		Help:      "Rounds started across all rooms.",
	})

	GamesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "games_completed_total",
		Help:      "Rounds that reached the results phase.",
	})

	ScoresSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "scores_submitted_total",
		Help:      "Score submissions by outcome.",
	}, []string{"outcome"})

	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "chat_messages_total",
		Help:      "Chat messages accepted into room logs.",
	})

	EventsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "events_broadcast_total",
		Help:      "Events fanned out to room members.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "events_dropped_total",
		Help:      "Events dropped because a client send buffer was full.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sketchaa",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
)
