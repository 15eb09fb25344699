package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docinsight/internal/core/domain"
	"github.com/kirillkom/docinsight/internal/core/ports"
	"github.com/kirillkom/docinsight/internal/core/usecase"
	"github.com/kirillkom/docinsight/internal/observability/metrics"
)

// taskRoutes maps each guarded endpoint to the task it runs. The path is
// also the lookup key for the endpoint's API key.
var taskRoutes = map[string]domain.TaskKind{
	"/summarize":        domain.TaskSummarize,
	"/sentiment":        domain.TaskSentiment,
	"/extract-keywords": domain.TaskKeywords,
	"/translate":        domain.TaskTranslate,
	"/structure-data":   domain.TaskStructureData,
	"/detect-topics":    domain.TaskDetectTopics,
}

type Router struct {
	service   string
	processor ports.TaskProcessor
	apiKeys   map[string]string
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	service string,
	processor ports.TaskProcessor,
	apiKeys map[string]string,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		service:   service,
		processor: processor,
		apiKeys:   apiKeys,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.index)
	mux.HandleFunc("/health", rt.health)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/openapi.yaml", rt.openAPIDocument)
	for path, kind := range taskRoutes {
		mux.HandleFunc(path, rt.taskEndpoint(path, kind))
	}

	var handler http.Handler = mux
	handler = recoveryMiddleware(handler)
	handler = rt.metrics.Middleware(rt.service, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// index serves the service description on "/" and, because the pattern is
// the mux catch-all, the JSON 404 for every unregistered path.
func (rt *Router) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, domain.ResponseEnvelope{
			Status:  domain.StatusError,
			Message: "The requested endpoint was not found",
			Error:   "not_found",
		})
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service":     "Document Insight API",
		"description": "REST API for AI-assisted document analysis over blob storage",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"health":           "/health",
			"summarize":        "/summarize",
			"sentiment":        "/sentiment",
			"extract_keywords": "/extract-keywords",
			"translate":        "/translate",
			"structure_data":   "/structure-data",
			"detect_topics":    "/detect-topics",
		},
		"authentication": "Each endpoint requires X-API-Key header with endpoint-specific API key",
		"documentation": map[string]any{
			"file_path_format":  "container/filename.ext or full blob URL",
			"supported_formats": []string{"PDF", "DOCX", "XLSX", "RTF", "HTML", "TXT", "MD", "CSV", "JSON", "XML"},
			"required_headers":  []string{"X-API-Key", "Content-Type: application/json"},
			"openapi":           "/openapi.yaml",
		},
	})
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": rt.service,
		"endpoints": []string{
			"/summarize",
			"/sentiment",
			"/extract-keywords",
			"/translate",
			"/structure-data",
			"/detect-topics",
		},
	})
}

// taskEndpoint checks the method before authentication so a wrong-method
// probe gets 405 whether or not it carries a key.
func (rt *Router) taskEndpoint(path string, kind domain.TaskKind) http.HandlerFunc {
	handle := rt.requireAPIKey(path, rt.handleTask(kind))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		handle(w, r)
	}
}

func (rt *Router) handleTask(kind domain.TaskKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			FilePath       string `json:"file_path"`
			TargetLanguage string `json:"target_language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, domain.ResponseEnvelope{
				Status:  domain.StatusError,
				Message: "Request must contain JSON data",
				Error:   domain.TaxonomyProcessing,
			})
			return
		}
		if missing := missingFields(kind, payload.FilePath, payload.TargetLanguage); len(missing) > 0 {
			writeJSON(w, http.StatusBadRequest, domain.ResponseEnvelope{
				Status:  domain.StatusError,
				Message: "The following fields are required: " + strings.Join(missing, ", "),
				Error:   domain.TaxonomyProcessing,
			})
			return
		}

		start := time.Now()
		outcome, err := rt.processor.Process(r.Context(), domain.TaskRequest{
			Kind:           kind,
			FilePath:       payload.FilePath,
			TargetLanguage: payload.TargetLanguage,
		})
		if err != nil {
			envelope := usecase.AssembleError(err)
			rt.metrics.RecordTaskOutcome(rt.service, string(kind), envelope.Error, time.Since(start))
			slog.Error("task failed",
				"request_id", requestIDFromContext(r.Context()),
				"task", string(kind),
				"file_path", payload.FilePath,
				"error", err,
			)
			writeJSON(w, mapErrorToHTTPStatus(err), envelope)
			return
		}

		rt.metrics.RecordTaskOutcome(rt.service, string(kind), "success", time.Since(start))
		if outcome.Document.WasTruncated {
			rt.metrics.RecordTruncation(rt.service, string(kind))
		}
		writeJSON(w, http.StatusOK, usecase.AssembleSuccess(outcome))
	}
}

func missingFields(kind domain.TaskKind, filePath, targetLanguage string) []string {
	var missing []string
	if strings.TrimSpace(filePath) == "" {
		missing = append(missing, "file_path")
	}
	if kind == domain.TaskTranslate && strings.TrimSpace(targetLanguage) == "" {
		missing = append(missing, "target_language")
	}
	return missing
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, domain.ResponseEnvelope{
		Status:  domain.StatusError,
		Message: "The request method is not allowed for this endpoint",
		Error:   "method_not_allowed",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
