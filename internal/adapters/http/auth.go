package httpadapter

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

const apiKeyHeader = "X-API-Key"

// clientAPIKey reads the presented key from X-API-Key, falling back to
// Authorization. A Bearer prefix is stripped; any other value is taken as
// the raw key.
func clientAPIKey(r *http.Request) string {
	key := r.Header.Get(apiKeyHeader)
	if key == "" {
		key = r.Header.Get("Authorization")
	}
	return strings.TrimPrefix(key, "Bearer ")
}

// requireAPIKey guards one endpoint with the static key configured for its
// path. Every rejection uses the canonical envelope so clients can treat
// auth failures like any other error.
func (rt *Router) requireAPIKey(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := clientAPIKey(r)
		if key == "" {
			slog.Warn("missing api key",
				"request_id", requestIDFromContext(r.Context()),
				"path", path,
			)
			writeJSON(w, http.StatusUnauthorized, domain.ResponseEnvelope{
				Status:  domain.StatusError,
				Message: "Please provide API key in X-API-Key header or Authorization header",
				Error:   domain.TaxonomyAuthentication,
			})
			return
		}

		expected := rt.apiKeys[path]
		if expected == "" {
			slog.Error("no api key configured", "path", path)
			writeJSON(w, http.StatusInternalServerError, domain.ResponseEnvelope{
				Status:  domain.StatusError,
				Message: "This endpoint is not properly configured",
				Error:   domain.TaxonomyAuthentication,
			})
			return
		}

		if key != expected {
			slog.Warn("invalid api key",
				"request_id", requestIDFromContext(r.Context()),
				"path", path,
			)
			writeJSON(w, http.StatusForbidden, domain.ResponseEnvelope{
				Status:  domain.StatusError,
				Message: "The provided API key is not valid for this endpoint",
				Error:   domain.TaxonomyAuthentication,
			})
			return
		}

		next(w, r)
	}
}
