package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the HTTP routes onto the core services.
func NewRouter(logger *slog.Logger, registry gameRegistry, bot botService, stats statsService, leaderboard leaderboardService) http.Handler {
	h := &handlers{
		logger:      logger.With("component", "rest"),
		registry:    registry,
		bot:         bot,
		stats:       stats,
		leaderboard: leaderboard,
	}

	r := chi.NewRouter()

	r.Get("/ping", h.ping)

	r.Route("/api", func(r chi.Router) {
		r.Post("/games", h.createGame)
		r.Get("/games", h.listOpenGames)
		r.Post("/games/join", h.joinGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", h.getGame)
			r.Post("/move", h.submitMove)
		})

		r.Get("/invites/{code}", h.checkInvite)

		r.Post("/agent/move", h.agentMove)

		r.Get("/stats", h.globalStats)
		r.Get("/leaderboard", h.topPlayers)
	})

	return r
}

func Start(port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
