package handler

import (
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jesseglab/postduck/internal/authsession"
	"github.com/jesseglab/postduck/internal/config"
	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/repository"
)

// SetupRouter wires the API server's routes. Dispatch, code generation,
// import, and history sit behind JWT auth; health does not.
func SetupRouter(cfg *config.Config, repo repository.IRepository, logger *log.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	exec := executor.NewExecutor(cfg.Agent.URL, logger)
	extractor := authsession.NewExtractor(repo.AuthSession(), repo.Environment(), logger)

	executeHandler := NewExecuteHandler(exec, repo, extractor, logger)
	curlHandler := NewCurlHandler(logger)
	importHandler := NewImportHandler(repo, logger)
	historyHandler := NewHistoryHandler(repo, logger)
	authMiddleware := NewAuthMiddleware(cfg.Auth.JWTSecret, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", Health)
		r.Post("/parse-curl", curlHandler.Parse)
		r.Post("/serialize-curl", curlHandler.Serialize)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/execute", executeHandler.Execute)
			r.Post("/generate-code", executeHandler.GenerateCode)
			r.Post("/import/postman", importHandler.ImportPostman)
			r.Get("/history/{requestID}", historyHandler.ListByRequest)
		})
	})

	return r
}
