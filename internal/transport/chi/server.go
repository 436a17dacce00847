// Package chi serves the matching API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/keywords"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
)

// Multipart field names.
const (
	FieldResume         = "resume"
	FieldJobDescription = "job_description"
)

// DefaultMaxUploadBytes bounds request bodies when Limits leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits caps response sizes and uploads.
type Limits struct {
	MatchedKeywords   int
	SuggestedKeywords int
	ReferenceKeywords int
	MaxUploadBytes    int64
}

// Server holds the HTTP handlers.
type Server struct {
	matcher       Matcher
	schema        SchemaProvider
	health        HealthChecker
	extractor     TextExtractor
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	matcher Matcher,
	schema SchemaProvider,
	health HealthChecker,
	extractor TextExtractor,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.MaxUploadBytes <= 0 {
		limits.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		matcher:   matcher,
		schema:    schema,
		health:    health,
		extractor: extractor,
		limits:    limits,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge),
		sentinelHandler(domain.ErrDocumentUnreadable, http.StatusUnprocessableEntity, ErrorCodeDocumentUnreadable),
		sentinelHandler(domain.ErrNoExtractableText, http.StatusUnprocessableEntity, ErrorCodeNoExtractableText),
		sentinelHandler(domain.ErrMalformedInput, http.StatusBadRequest, ErrorCodeMalformedInput),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, ErrorCodeIndexNotReady),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/match", s.Match)
	r.Post("/match_custom", s.MatchCustom)
	r.Get("/health", s.HealthCheck)
	r.Get("/schema", s.Schema)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// Match handles POST /match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	form, err := s.readUpload(w, r, false)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	r = s.tagRequest(r, zap.String("mode", "corpus"), zap.Int("resume_bytes", len(form.resume)))

	query, err := s.extractor.Extract(r.Context(), form.resume)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report, err := s.matcher.Match(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewMatchResponse(&report, s.limits))
}

// MatchCustom handles POST /match_custom.
func (s *Server) MatchCustom(w http.ResponseWriter, r *http.Request) {
	form, err := s.readUpload(w, r, true)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	r = s.tagRequest(r, zap.String("mode", "reference"), zap.Int("resume_bytes", len(form.resume)))

	query, err := s.extractor.Extract(r.Context(), form.resume)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report, err := s.matcher.MatchReference(r.Context(), query, form.jobDescription)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewMatchCustomResponse(&report, s.limits))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if !report.Ready {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:       string(report.Status),
		CorpusLoaded: report.Corpus.Loaded,
		State:        string(report.Corpus.State),
		Rows:         report.Corpus.Rows,
		Columns:      report.Corpus.Columns,
		Vectorized:   report.Corpus.Vectorized,
		Strategy:     report.Corpus.Strategy,
		Dimensions:   report.Corpus.Dimensions,
		Error:        report.Corpus.Error,
		Checks:       checks,
	})
}

// Schema handles GET /schema.
func (s *Server) Schema(w http.ResponseWriter, _ *http.Request) {
	cols := s.schema.Columns()
	if cols == nil {
		writeError(w, http.StatusServiceUnavailable, ErrorCodeIndexNotReady, "corpus is not loaded")
		return
	}
	writeJSON(w, http.StatusOK, SchemaResponse{Columns: cols})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type uploadForm struct {
	resume         []byte
	jobDescription string
}

// readUpload streams the multipart body into memory. Nothing is written to disk.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, needReference bool) (uploadForm, error) {
	var form uploadForm

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return form, fmt.Errorf("expected multipart/form-data body: %w", domain.ErrMalformedInput)
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.limits.MaxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return form, fmt.Errorf("read multipart: %w: %w", domain.ErrMalformedInput, err)
	}

	var haveResume, haveReference bool
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, uploadError(err)
		}

		switch part.FormName() {
		case FieldResume:
			form.resume, err = io.ReadAll(part)
			haveResume = true
		case FieldJobDescription:
			var b []byte
			b, err = io.ReadAll(part)
			form.jobDescription = string(b)
			haveReference = true
		default:
			_, err = io.Copy(io.Discard, part)
		}
		_ = part.Close()
		if err != nil {
			return form, uploadError(err)
		}
	}

	if !haveResume {
		return form, fmt.Errorf("missing %q file: %w", FieldResume, domain.ErrMalformedInput)
	}
	if needReference && !haveReference {
		return form, fmt.Errorf("missing %q field: %w", FieldJobDescription, domain.ErrMalformedInput)
	}
	return form, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("upload exceeds %d bytes: %w", tooLarge.Limit, domain.ErrPayloadTooLarge)
	}
	return fmt.Errorf("read multipart: %w: %w", domain.ErrMalformedInput, err)
}

// NewMatchResponse renders a corpus-mode report with keyword lists capped by limits.
func NewMatchResponse(report *dommatch.Report, limits Limits) MatchResponse {
	items := make([]MatchItem, len(report.Results))
	for i := range report.Results {
		res := &report.Results[i]
		p := res.Posting()
		items[i] = MatchItem{
			ID:            p.ID(),
			Title:         p.Title(),
			CompanyName:   p.Company(),
			Location:      p.Location(),
			JobPostingURL: p.URL(),
			MatchScore:    res.Score(),
			Rank:          res.Rank(),
		}
	}
	return MatchResponse{
		Matches:           items,
		MatchedKeywords:   nonNil(keywords.Limit(report.Matched, limits.MatchedKeywords)),
		SuggestedKeywords: nonNil(keywords.Limit(report.Suggested, limits.SuggestedKeywords)),
	}
}

// NewMatchCustomResponse renders a single-reference report.
func NewMatchCustomResponse(report *dommatch.ReferenceReport, limits Limits) MatchCustomResponse {
	return MatchCustomResponse{
		JobDescription:    report.Reference,
		MatchScore:        report.Score,
		MatchedKeywords:   nonNil(keywords.Limit(report.Matched, limits.ReferenceKeywords)),
		SuggestedKeywords: nonNil(keywords.Limit(report.Suggested, limits.ReferenceKeywords)),
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns the sentinel's message so wrapped driver or
// provider details never reach the client.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPayloadTooLarge,
		domain.ErrDocumentUnreadable,
		domain.ErrNoExtractableText,
		domain.ErrMalformedInput,
		domain.ErrIndexNotReady,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler creates an errorHandler that matches a sentinel error via errors.Is.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// tagRequest adds fields to the request-scoped logger.
func (s *Server) tagRequest(r *http.Request, fields ...zap.Field) *http.Request {
	l := logpkg.FromContextOr(r.Context(), s.logger).With(fields...)
	return r.WithContext(logpkg.ContextWithLogger(r.Context(), l))
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
