package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/docinsight/internal/core/domain"
	"github.com/kirillkom/docinsight/internal/observability/metrics"
)

type processorFake struct {
	outcome domain.TaskOutcome
	err     error
	calls   int
	lastReq domain.TaskRequest
}

func (f *processorFake) Process(_ context.Context, req domain.TaskRequest) (domain.TaskOutcome, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return domain.TaskOutcome{}, f.err
	}
	outcome := f.outcome
	outcome.Request = req
	return outcome, nil
}

func testAPIKeys() map[string]string {
	return map[string]string{
		"/summarize":        "summarize-key",
		"/sentiment":        "sentiment-key",
		"/extract-keywords": "keywords-key",
		"/translate":        "translate-key",
		"/structure-data":   "structure-key",
		"/detect-topics":    "topics-key",
	}
}

func newTestHandler(p *processorFake, keys map[string]string) http.Handler {
	return NewRouter("docinsight-api", p, keys, metrics.NewHTTPServerMetrics("docinsight-api")).Handler()
}

func summarizeOutcome() domain.TaskOutcome {
	return domain.TaskOutcome{
		Result: domain.TaskResult{
			Kind: domain.TaskSummarize,
			Summary: &domain.SummaryResult{
				Summary:        "Revenue grew in the third quarter.",
				SummaryLength:  34,
				OriginalLength: 120,
			},
		},
		Document:   domain.ExtractedDocument{OriginalLength: 120, UsedLength: 120},
		Properties: domain.FileProperties{Name: "q3.txt", Size: 120, ContentType: "text/plain"},
	}
}

func postTask(handler http.Handler, path, apiKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) domain.ResponseEnvelope {
	t.Helper()
	var envelope domain.ResponseEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("expected status healthy, got %v", body["status"])
	}
	endpoints, ok := body["endpoints"].([]any)
	if !ok || len(endpoints) != 6 {
		t.Fatalf("expected 6 endpoints, got %v", body["endpoints"])
	}
}

func TestIndexDescribesService(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["service"] != "Document Insight API" {
		t.Fatalf("unexpected service name: %v", body["service"])
	}
	endpoints, ok := body["endpoints"].(map[string]any)
	if !ok {
		t.Fatalf("expected endpoint map, got %T", body["endpoints"])
	}
	if endpoints["summarize"] != "/summarize" {
		t.Fatalf("unexpected summarize path: %v", endpoints["summarize"])
	}
}

func TestUnknownPathReturnsNotFoundEnvelope(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Status != domain.StatusError || envelope.Error != "not_found" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if envelope.Message != "The requested endpoint was not found" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
}

func TestWrongMethodReturnsMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())
	req := httptest.NewRequest(http.MethodGet, "/summarize", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Error != "method_not_allowed" {
		t.Fatalf("unexpected error key: %q", envelope.Error)
	}
	if envelope.Message != "The request method is not allowed for this endpoint" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
}

func TestTaskRequiresAPIKey(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	res := postTask(handler, "/summarize", "", `{"file_path":"docs/q3.txt"}`)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Error != domain.TaxonomyAuthentication {
		t.Fatalf("expected authentication_error, got %q", envelope.Error)
	}
	if envelope.Message != "Please provide API key in X-API-Key header or Authorization header" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if fake.calls != 0 {
		t.Fatalf("processor invoked %d times without a key", fake.calls)
	}
}

func TestTaskRejectsWrongAPIKey(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	res := postTask(handler, "/summarize", "sentiment-key", `{"file_path":"docs/q3.txt"}`)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Error != domain.TaxonomyAuthentication {
		t.Fatalf("expected authentication_error, got %q", envelope.Error)
	}
	if envelope.Message != "The provided API key is not valid for this endpoint" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if fake.calls != 0 {
		t.Fatalf("processor invoked %d times with a rejected key", fake.calls)
	}
}

func TestTaskWithoutConfiguredKeyFails(t *testing.T) {
	keys := testAPIKeys()
	delete(keys, "/summarize")
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, keys)

	res := postTask(handler, "/summarize", "summarize-key", `{"file_path":"docs/q3.txt"}`)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Message != "This endpoint is not properly configured" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if fake.calls != 0 {
		t.Fatalf("processor invoked %d times on unconfigured endpoint", fake.calls)
	}
}

func TestBearerTokenAccepted(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"file_path":"docs/q3.txt"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer summarize-key")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
}

func TestRawAuthorizationValueAccepted(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"file_path":"docs/q3.txt"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "summarize-key")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
}

func TestMalformedBodyReturnsBadRequest(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	res := postTask(handler, "/summarize", "summarize-key", "this is not json")

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Message != "Request must contain JSON data" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if envelope.Error != domain.TaxonomyProcessing {
		t.Fatalf("expected processing_error, got %q", envelope.Error)
	}
	if fake.calls != 0 {
		t.Fatalf("processor invoked %d times on malformed body", fake.calls)
	}
}

func TestMissingFilePathListed(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	res := postTask(handler, "/summarize", "summarize-key", `{}`)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Message != "The following fields are required: file_path" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
}

func TestTranslateListsAllMissingFields(t *testing.T) {
	fake := &processorFake{}
	handler := newTestHandler(fake, testAPIKeys())

	res := postTask(handler, "/translate", "translate-key", `{}`)
	envelope := decodeEnvelope(t, res)
	if envelope.Message != "The following fields are required: file_path, target_language" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}

	res = postTask(handler, "/translate", "translate-key", `{"file_path":"docs/q3.txt"}`)
	envelope = decodeEnvelope(t, res)
	if envelope.Message != "The following fields are required: target_language" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if fake.calls != 0 {
		t.Fatalf("processor invoked %d times despite missing fields", fake.calls)
	}
}

func TestSummarizeSuccessEnvelope(t *testing.T) {
	fake := &processorFake{outcome: summarizeOutcome()}
	handler := newTestHandler(fake, testAPIKeys())

	res := postTask(handler, "/summarize", "summarize-key", `{"file_path":"docs/q3.txt"}`)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id header")
	}

	envelope := decodeEnvelope(t, res)
	if envelope.Status != domain.StatusSuccess {
		t.Fatalf("expected success status, got %q", envelope.Status)
	}
	if envelope.Message != "Document summarized successfully" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if envelope.Data["summary"] != "Revenue grew in the third quarter." {
		t.Fatalf("unexpected summary: %v", envelope.Data["summary"])
	}
	if envelope.Data["file_path"] != "docs/q3.txt" {
		t.Fatalf("unexpected file_path: %v", envelope.Data["file_path"])
	}
	if envelope.Data["was_truncated"] != false {
		t.Fatalf("unexpected was_truncated: %v", envelope.Data["was_truncated"])
	}

	if fake.lastReq.Kind != domain.TaskSummarize {
		t.Fatalf("expected summarize task, got %q", fake.lastReq.Kind)
	}
	if fake.lastReq.FilePath != "docs/q3.txt" {
		t.Fatalf("unexpected file path passed to processor: %q", fake.lastReq.FilePath)
	}
}

func TestPipelineErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{
			name:       "blob not found",
			err:        domain.WrapError(domain.ErrBlobNotFound, "fetch docs/missing.txt", errors.New("docs/missing.txt")),
			wantStatus: http.StatusNotFound,
			wantKey:    domain.TaxonomyFileNotFound,
		},
		{
			name:       "ai transport failure",
			err:        domain.WrapError(domain.ErrAIUnavailable, "chat completion", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
			wantKey:    domain.TaxonomyAIProcessing,
		},
		{
			name:       "ai malformed response",
			err:        domain.WrapError(domain.ErrAIMalformedResponse, "decode summarize response", errors.New("empty completion")),
			wantStatus: http.StatusInternalServerError,
			wantKey:    domain.TaxonomyAIProcessing,
		},
		{
			name:       "unsupported format",
			err:        domain.WrapError(domain.ErrUnsupportedFormat, "detect format", errors.New("image/png")),
			wantStatus: http.StatusBadRequest,
			wantKey:    domain.TaxonomyProcessing,
		},
		{
			name:       "no extractable text",
			err:        domain.WrapError(domain.ErrNoExtractableText, "extract q3.pdf", errors.New("no extractable text found in PDF (3 pages)")),
			wantStatus: http.StatusBadRequest,
			wantKey:    domain.TaxonomyProcessing,
		},
		{
			name:       "store unavailable",
			err:        domain.WrapError(domain.ErrStoreUnavailable, "fetch docs/q3.txt", errors.New("dial tcp: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantKey:    domain.TaxonomyProcessing,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &processorFake{err: tc.err}
			handler := newTestHandler(fake, testAPIKeys())

			res := postTask(handler, "/summarize", "summarize-key", `{"file_path":"docs/q3.txt"}`)

			if res.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, res.Code)
			}
			envelope := decodeEnvelope(t, res)
			if envelope.Status != domain.StatusError {
				t.Fatalf("expected error status, got %q", envelope.Status)
			}
			if envelope.Error != tc.wantKey {
				t.Fatalf("expected error key %q, got %q", tc.wantKey, envelope.Error)
			}
			if envelope.Message == "" {
				t.Fatal("expected non-empty message")
			}
		})
	}
}

type panickingProcessor struct{}

func (panickingProcessor) Process(context.Context, domain.TaskRequest) (domain.TaskOutcome, error) {
	panic("parser blew up")
}

func TestHandlerPanicBecomesInternalError(t *testing.T) {
	handler := NewRouter("docinsight-api", panickingProcessor{}, testAPIKeys(),
		metrics.NewHTTPServerMetrics("docinsight-api")).Handler()

	res := postTask(handler, "/summarize", "summarize-key", `{"file_path":"docs/a.txt"}`)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	envelope := decodeEnvelope(t, res)
	if envelope.Status != domain.StatusError {
		t.Fatalf("expected error status, got %q", envelope.Status)
	}
	if envelope.Message != "An unexpected error occurred" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
	if envelope.Error != domain.TaxonomyInternal {
		t.Fatalf("expected error key %q, got %q", domain.TaxonomyInternal, envelope.Error)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-abc-123")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get("X-Request-Id"); got != "req-abc-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}

func TestOpenAPIDocumentServed(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(res.Body.String(), "openapi: 3.0.3") {
		t.Fatal("expected OpenAPI document body")
	}
}

func TestMetricsExposition(t *testing.T) {
	handler := newTestHandler(&processorFake{}, testAPIKeys())

	warmup := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), warmup)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "docinsight_http_requests_total") {
		t.Fatal("expected request counter in exposition")
	}
}
