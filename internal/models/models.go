package models

import "time"

// Classification labels emitted for checked pages.
const (
	StatusOK       = "OK"
	StatusNotFound = "ERROR 404"
)

// Run statuses recorded in summaries and the history store.
const (
	RunStatusStarted     = "STARTED"
	RunStatusCompleted   = "COMPLETED"
	RunStatusFailed      = "FAILED"
	RunStatusInterrupted = "INTERRUPTED"
)

// ValidationResult is the outcome of checking a sitemap URL for
// reachability and XML well-formedness.
type ValidationResult struct {
	URL     string
	Valid   bool
	Message string
}

// ClassificationResult is the outcome of checking a single page URL.
type ClassificationResult struct {
	URL      string
	Label    string
	Reason   string
	FinalURL string
}

// IsNotFound reports whether the page was classified as a 404.
func (r ClassificationResult) IsNotFound() bool {
	return r.Label == StatusNotFound
}

// CheckSummary aggregates the outcome of one full workflow run.
type CheckSummary struct {
	RootURL         string
	Status          string
	StartedAt       time.Time
	Duration        time.Duration
	ChildSitemaps   int
	SkippedSitemaps int
	CheckedURLs     int
	OKCount         int
	NotFoundCount   int
	ErrorMessages   []string
}

// AddClassification folds a single page result into the summary counts.
func (s *CheckSummary) AddClassification(result ClassificationResult) {
	s.CheckedURLs++
	if result.IsNotFound() {
		s.NotFoundCount++
	} else {
		s.OKCount++
	}
}
