package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sjgames/scoreboard/handlers"
	"github.com/sjgames/scoreboard/middleware"
	"github.com/sjgames/scoreboard/models"
	"github.com/sjgames/scoreboard/services"
)

// SetupRoutes собирает маршрутизатор: публичное табло, вход по PIN и
// судейскую панель. Общий таймер события доступен только master admin.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	boardHandler *handlers.BoardHandler,
	clockHandler *handlers.ClockHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Публичное табло
	router.Get("/standings", boardHandler.GetStandings)
	router.Get("/matches", boardHandler.GetHistory)
	router.Get("/teams", boardHandler.GetTeams)
	router.Get("/games", boardHandler.GetGames)
	router.Get("/clock/{kind}", clockHandler.GetClock)
	router.Get("/ws/scoreboard", webSocketHandler.ServeWs)

	router.Post("/auth/login", authHandler.Login)

	// Судейская панель
	router.Route("/staff", func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))
		r.Use(middleware.RequireRole(services.RoleJudge, services.RoleMaster))

		r.Post("/matches", boardHandler.RecordMatch)
		r.Post("/batch", boardHandler.RecordBatch)

		r.Route("/batch/draft", func(r chi.Router) {
			r.Get("/", boardHandler.GetBatchDraft)
			r.Put("/", boardHandler.PutBatchDraft)
			r.Delete("/", boardHandler.DeleteBatchDraft)
			r.Post("/commit", boardHandler.CommitBatchDraft)
		})

		r.Route("/clock/game", func(r chi.Router) {
			r.Post("/", clockHandler.SetClock(models.ClockGame))
			r.Post("/extend", clockHandler.ExtendClock(models.ClockGame))
			r.Post("/reset", clockHandler.ResetClock(models.ClockGame))
		})

		// Общий таймер — только master admin
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(services.RoleMaster))
			r.Route("/clock/general", func(r chi.Router) {
				r.Post("/", clockHandler.SetClock(models.ClockGeneral))
				r.Post("/extend", clockHandler.ExtendClock(models.ClockGeneral))
				r.Post("/reset", clockHandler.ResetClock(models.ClockGeneral))
			})
		})
	})
}
