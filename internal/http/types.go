package http

import (
	"net/http"

	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/config"
	"github.com/mauv0809/duel-keeper/internal/http/handlers"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/pubsub"
	"github.com/mauv0809/duel-keeper/internal/scheduler"
	"github.com/mauv0809/duel-keeper/internal/stats"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

type Server struct {
	Store          tournament.Store
	Stats          stats.Engine
	Scheduler      *scheduler.Scheduler
	Backuper       handlers.Backuper
	MetricsHandler http.Handler
	Cfg            config.Config
	Clock          clock.Clock
	Router         *http.ServeMux

	// Set when this instance also acts as the delivery worker for relayed notifications.
	pubsub    pubsub.PubSubClient
	deliverer notifier.Notifier
}
