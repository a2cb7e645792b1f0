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

// Option configures optional parts of the Server.
type Option func(*Server)

// WithNotificationRelay registers the Pub/Sub push endpoint that delivers
// relayed notification intents through deliverer.
func WithNotificationRelay(client pubsub.PubSubClient, deliverer notifier.Notifier) Option {
	return func(s *Server) {
		s.pubsub = client
		s.deliverer = deliverer
	}
}

func NewServer(store tournament.Store, engine stats.Engine, sched *scheduler.Scheduler, backuper handlers.Backuper, metricsHandler http.Handler, cfg config.Config, clk clock.Clock, opts ...Option) *Server {
	server := &Server{
		Store:          store,
		Stats:          engine,
		Scheduler:      sched,
		Backuper:       backuper,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Clock:          clk,
		Router:         http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(server)
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// Reads only need the params middleware; anything that changes state also
	// goes through the admin middleware.
	admin := adminMiddleware(s.Cfg.AdminIDs)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(handlers.RegisterPlayerHandler(s.Store), paramsMiddleware, admin))
	s.Router.Handle("GET /players/search", Chain(handlers.SearchPlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(handlers.GetPlayerHandler(s.Store), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(handlers.RemovePlayerHandler(s.Store), paramsMiddleware, admin))
	s.Router.Handle("POST /players/{id}/stats", Chain(handlers.UpdatePlayerStatsHandler(s.Store), paramsMiddleware, admin))
	s.Router.Handle("GET /players/{id}/matches", Chain(handlers.PlayerMatchesHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/rank", Chain(handlers.PlayerRankHandler(s.Stats), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /matches/upcoming", Chain(handlers.UpcomingMatchesHandler(s.Store, s.Clock), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(handlers.ScheduleMatchHandler(s.Store), paramsMiddleware, admin))
	s.Router.Handle("DELETE /matches/{id}", Chain(handlers.CancelMatchHandler(s.Store, s.Scheduler), paramsMiddleware, admin))

	s.Router.Handle("GET /leaderboard", Chain(handlers.LeaderboardHandler(s.Stats), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(handlers.TournamentStatsHandler(s.Stats), paramsMiddleware))
	s.Router.Handle("GET /compare", Chain(handlers.CompareHandler(s.Stats), paramsMiddleware))

	s.Router.Handle("POST /tick", Chain(handlers.TickHandler(s.Scheduler), paramsMiddleware, admin))
	s.Router.Handle("POST /backup", Chain(handlers.BackupHandler(s.Backuper, s.Clock), paramsMiddleware, admin))

	if s.pubsub != nil && s.deliverer != nil {
		s.Router.Handle("POST /pubsub/notifications", Chain(handlers.DeliverNotificationHandler(s.pubsub, s.deliverer), paramsMiddleware))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
