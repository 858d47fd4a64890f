package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jesseglab/postduck/internal/curl"
	"github.com/jesseglab/postduck/internal/model"
)

type CurlHandler struct {
	logger *log.Logger
}

func NewCurlHandler(logger *log.Logger) *CurlHandler {
	return &CurlHandler{logger: logger}
}

// Parse turns a pasted curl command into the editable request shape.
func (h *CurlHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var dto model.DTOParseCurlRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	parsed, err := curl.Parse(dto.CurlCommand)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, parsed)
}

// Serialize renders a stored request back into a curl command.
func (h *CurlHandler) Serialize(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.URL == "" {
		respondWithError(w, http.StatusBadRequest, "Field 'URL' is required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"curlCommand": curl.RequestToCurl(&req),
	})
}
