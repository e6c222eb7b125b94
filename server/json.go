package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/errors"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeError sends {"error": message}. Internal causes are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg(message)
	} else if err != nil {
		log.Debug().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg(message)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	return nil
}

// statusRule maps an error kind to a response. Rules are checked in order.
type statusRule struct {
	kind    error
	status  int
	message string
}

func statusFor(err error, rules []statusRule, fallback string) (int, string) {
	for _, rule := range rules {
		if errors.Is(err, rule.kind) {
			return rule.status, rule.message
		}
	}
	return http.StatusInternalServerError, fallback
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, rules []statusRule, fallback string) {
	status, message := statusFor(err, rules, fallback)
	writeError(w, r, status, message, err)
}
