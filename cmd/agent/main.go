package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jesseglab/postduck/internal/agent"
)

func main() {
	logger := log.New(os.Stdout, "AGENT: ", log.Ldate|log.Ltime)

	port := os.Getenv("PORT")
	if port == "" {
		port = agent.DefaultPort
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: agent.NewServer(logger).Router(),
		// No write timeout: a dispatch legitimately takes up to the
		// full 30 second request timeout.
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Printf("Postduck Agent v%s listening on http://localhost:%s", agent.Version, port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Cannot run agent on port %s: %v", port, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Println("Shutting down agent...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Agent shutdown failed: %v", err)
	}
	logger.Println("Agent stopped")
}
