// Package api holds the HTTP response conventions shared by every handler:
// content negotiation between JSON and MessagePack, and the mapping from
// errors to status codes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/oracles/internal/fetch"
)

// ContentTypeMsgpack is served when the client asks for it in Accept.
const ContentTypeMsgpack = "application/msgpack"

// M is shorthand for ad-hoc response objects.
type M = map[string]any

// WriteJSON writes data with the given status. Clients that send
// "Accept: application/msgpack" get MessagePack encoded with the json tags.
func WriteJSON(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, data any) {
	if r != nil && wantsMsgpack(r) {
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode msgpack response")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}

// WriteError maps err onto the gateway error taxonomy and writes it.
func WriteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status, body := Classify(err)
	if status == http.StatusInternalServerError {
		body["requestId"] = middleware.GetReqID(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", body["requestId"].(string)).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Request rejected")
	}
	WriteJSON(w, r, log, status, body)
}

// Classify returns the status code and body for err.
func Classify(err error) (int, M) {
	var (
		validation    *ValidationError
		notFound      *NotFoundError
		notConfigured *NotConfiguredError
		rateLimited   *RateLimitedError
		upstream      *fetch.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, M{"error": validation.Message}
	case errors.As(err, &notFound):
		body := M{"error": notFound.Message}
		for k, v := range notFound.Fields {
			body[k] = v
		}
		return http.StatusNotFound, body
	case errors.As(err, &notConfigured):
		return http.StatusServiceUnavailable, M{"error": notConfigured.Error(), "setup": notConfigured.Setup}
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, M{"error": rateLimited.Message}
	case errors.Is(err, fetch.ErrTimeout):
		return http.StatusGatewayTimeout, M{
			"error":   "Request timeout",
			"message": "External service took too long to respond",
		}
	case errors.As(err, &upstream):
		status := http.StatusInternalServerError
		if upstream.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		return status, M{"error": upstream.Error()}
	default:
		return http.StatusInternalServerError, M{
			"error":   "Internal server error",
			"message": err.Error(),
		}
	}
}

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is the time stamped on responses.
func Timestamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}
