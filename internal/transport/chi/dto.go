package chi

// ErrorCode is the machine-readable error code of an error response.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeNoExtractableText      ErrorCode = "no_extractable_text"
	ErrorCodeDocumentUnreadable     ErrorCode = "document_unreadable"
	ErrorCodeMalformedInput         ErrorCode = "malformed_input"
	ErrorCodeIndexNotReady          ErrorCode = "index_not_ready"
	ErrorCodePayloadTooLarge        ErrorCode = "payload_too_large"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeInternalError          ErrorCode = "internal_error"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MatchItem is one ranked posting.
type MatchItem struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	CompanyName   string  `json:"company_name"`
	Location      string  `json:"location"`
	JobPostingURL string  `json:"job_posting_url"`
	MatchScore    float64 `json:"match_score"`
	Rank          int     `json:"rank"`
}

// MatchResponse is the body of POST /match.
type MatchResponse struct {
	Matches           []MatchItem `json:"matches"`
	MatchedKeywords   []string    `json:"matched_keywords"`
	SuggestedKeywords []string    `json:"suggested_keywords"`
}

// MatchCustomResponse is the body of POST /match_custom.
type MatchCustomResponse struct {
	JobDescription    string   `json:"job_description"`
	MatchScore        float64  `json:"match_score"`
	MatchedKeywords   []string `json:"matched_keywords"`
	SuggestedKeywords []string `json:"suggested_keywords"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string            `json:"status"`
	CorpusLoaded bool              `json:"corpus_loaded"`
	State        string            `json:"state"`
	Rows         int               `json:"rows"`
	Columns      int               `json:"columns"`
	Vectorized   bool              `json:"vectorized"`
	Strategy     string            `json:"strategy"`
	Dimensions   int               `json:"dimensions"`
	Error        string            `json:"error,omitempty"`
	Checks       map[string]string `json:"checks"`
}

// SchemaResponse is the body of GET /schema.
type SchemaResponse struct {
	Columns []string `json:"columns"`
}
