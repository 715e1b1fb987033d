package routes

import (
	"net/http"

	_ "github.com/Dosada05/horse-tournament/docs" // регистрирует swagger-описание
	"github.com/Dosada05/horse-tournament/handlers"
	"github.com/Dosada05/horse-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Dependencies struct {
	// StandingsHandler is nil when the editor works against a remote backend.
	StandingsHandler *handlers.StandingsHandler
	EditorHandler    *handlers.EditorHandler
	WebSocketHandler *handlers.WebSocketHandler
	Authenticator    *middleware.Authenticator
	AllowedOrigins   []string
}

func SetupRoutes(router *chi.Mux, deps Dependencies) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if deps.StandingsHandler != nil {
		router.Route("/tournaments/standings/{id}", func(r chi.Router) {
			r.Get("/", deps.StandingsHandler.GetStandings)
			r.Get("/first-round", deps.StandingsHandler.GenerateFirstRound)

			// Сохранять результаты могут только организаторы
			r.Group(func(r chi.Router) {
				r.Use(deps.Authenticator.Authenticate)
				r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))
				r.Put("/", deps.StandingsHandler.SaveStandings)
			})
		})
	}

	router.Route("/editor/sessions", func(r chi.Router) {
		r.Get("/{sessionID}", deps.EditorHandler.GetSession)
		r.Get("/{sessionID}/candidates", deps.EditorHandler.Candidates)

		// Изменять сетку могут только организаторы
		r.Group(func(r chi.Router) {
			r.Use(deps.Authenticator.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Post("/", deps.EditorHandler.OpenSession)
			r.Delete("/{sessionID}", deps.EditorHandler.CloseSession)
			r.Post("/{sessionID}/reload", deps.EditorHandler.Reload)
			r.Post("/{sessionID}/first-round", deps.EditorHandler.GenerateFirstRound)
			r.Post("/{sessionID}/save", deps.EditorHandler.Save)
			r.Put("/{sessionID}/slots", deps.EditorHandler.AssignSlot)
			r.Delete("/{sessionID}/slots", deps.EditorHandler.RetractSlot)
		})
	})

	router.Get("/ws/editor/{sessionID}", deps.WebSocketHandler.ServeWs)
}
