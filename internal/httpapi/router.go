// Package httpapi exposes the scan, points and ledger usecases as a JSON
// API on a chi router.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fardannozami/ecoscan-bot/internal/app/usecase"
	"github.com/fardannozami/ecoscan-bot/internal/metrics"
)

// Handlers are the usecases behind the API.
type Handlers struct {
	Scan        *usecase.CompleteScanUsecase
	Points      *usecase.PointsUsecase
	Leaderboard *usecase.GetLeaderboardUsecase
	Catalog     *usecase.ListActivitiesUsecase
	Redeem      *usecase.RedeemPointsUsecase
	History     *usecase.ActivityHistoryUsecase
	Users       *usecase.RegisterUserUsecase
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(observeDuration)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/activities", h.listActivities)
		r.Get("/activities/top", h.topActivities)
		r.Get("/activities/{code}", h.getActivity)
		r.Post("/activities/{code}/scan", h.scan)

		r.Get("/leaderboard", h.leaderboard)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Put("/", h.putUser)
			r.Get("/points", h.points)
			r.Get("/points/breakdown", h.breakdown)
			r.Get("/history", h.history)
			r.Get("/standing", h.standing)
			r.Post("/redemptions", h.redeem)
			r.Get("/redemptions", h.listRedemptions)
		})
	})

	return r
}

// observeDuration records latency by route pattern, not raw path, to keep
// label cardinality bounded.
func observeDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
