package utils

import (
	"encoding/json"
	"net/http"

	"obiabedidi/errs"

	"github.com/rs/zerolog/log"
)

type M map[string]any

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"error": msg})
}

// RespondWithErr maps err onto a status code and a client-safe message.
func RespondWithErr(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.StatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	RespondWithError(w, code, errs.Message(err))
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("encoding response")
	}
}
