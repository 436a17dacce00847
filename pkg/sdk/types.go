package jobmatch

// Strategy names reported by the client.
const (
	StrategySparse = "sparse"
	StrategyDense  = "dense"
)

// Match is one ranked posting.
type Match struct {
	ID       string
	Title    string
	Company  string
	Location string
	URL      string
	Score    float64
	Rank     int // 1-based
}

// Report is the outcome of matching against the whole corpus.
// Keyword lists are complete; Matched is lexicographic, Suggested is
// ordered by length then lexicographically.
type Report struct {
	Matches   []Match
	Matched   []string
	Suggested []string
	Strategy  string
}

// ReferenceReport is the outcome of matching against a single job description.
type ReferenceReport struct {
	Reference string // normalized job description
	Score     float64
	Matched   []string
	Suggested []string
	Strategy  string
}

// CorpusStatus describes the loaded corpus.
type CorpusStatus struct {
	State      string // "uninitialized", "loading", "ready", "failed"
	Rows       int
	Columns    []string
	Strategy   string
	Dimensions int
	Error      string
}
