// Package agent implements the local companion server. It runs on the
// user's machine so requests aimed at localhost can be dispatched from
// where localhost actually is.
package agent

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

// DefaultPort is the fixed port the hosted frontend probes for.
const DefaultPort = "19199"

// Version is stamped at build time via -ldflags.
var Version = "0.1.0"

type Server struct {
	executor *executor.Executor
	logger   *log.Logger
}

func NewServer(logger *log.Logger) *Server {
	// No agent URL: the agent dispatches everything itself. Forwarding
	// from here would loop.
	return &Server{
		executor: executor.NewExecutor("", logger),
		logger:   logger,
	}
}

// Router builds the agent's two-endpoint surface. Only the hosting
// origin and local development origins may call it.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return origin == "" ||
				strings.Contains(origin, "postduck.org") ||
				strings.Contains(origin, "localhost") ||
				strings.Contains(origin, "127.0.0.1")
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/proxy", s.handleProxy)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// handleProxy dispatches on behalf of the caller. Invalid input yields a
// 500 whose body is still a well-formed ExecuteResponse, so the frontend
// can always render it.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	var params model.ExecuteRequestParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeExecuteError(w, "Error: Invalid JSON format")
		return
	}

	// The agent has no store; sessions and environments were resolved
	// before the request was forwarded here.
	response, err := s.executor.Execute(r.Context(), &params, executor.Snapshot{})
	if err != nil {
		if errors.Is(err, executor.ErrInvalidInput) {
			writeExecuteError(w, "Error: "+err.Error())
			return
		}
		s.logger.Printf("ERROR: %v", err)
		writeExecuteError(w, "Error: Unknown error")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func writeExecuteError(w http.ResponseWriter, body string) {
	writeJSON(w, http.StatusInternalServerError, &model.ExecuteResponse{
		StatusCode: 0,
		Headers:    map[string]string{},
		Body:       body,
		Duration:   0,
		Size:       len(body),
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}
