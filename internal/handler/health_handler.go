package handler

import (
	"net/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}
