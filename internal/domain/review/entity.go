package review

import (
	"time"
)

// Type selects the review framing sent to the model.
type Type string

const (
	TypeFull     Type = "full"
	TypeSecurity Type = "security"
	TypeQuick    Type = "quick"
)

// ParseType maps a request string to a review type, defaulting to full.
func ParseType(s string) Type {
	switch Type(s) {
	case TypeSecurity:
		return TypeSecurity
	case TypeQuick:
		return TypeQuick
	default:
		return TypeFull
	}
}

// Severity enum
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// ParseSeverity maps a model-supplied string to a severity.
// Unknown values fall back to medium, never an error.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return Severity(s)
	default:
		return SeverityMedium
	}
}

// Category enum
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryBug           Category = "bug"
	CategoryPerformance   Category = "performance"
	CategoryStyle         Category = "style"
	CategoryBestPractice  Category = "best_practice"
	CategoryDocumentation Category = "documentation"
)

// ParseCategory maps a model-supplied string to a category.
// Unknown values fall back to best_practice, never an error.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategorySecurity, CategoryBug, CategoryPerformance, CategoryStyle, CategoryBestPractice, CategoryDocumentation:
		return Category(s)
	default:
		return CategoryBestPractice
	}
}

// SeverityCounts value object
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// Add records one issue of the given severity.
func (c *SeverityCounts) Add(sev Severity) {
	switch sev {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	case SeverityInfo:
		c.Info++
	}
	c.Total++
}

// Issue is a single finding. Immutable once constructed.
type Issue struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Severity      Severity `json:"severity"`
	Category      Category `json:"category"`
	LineStart     int      `json:"line_start,omitempty"`
	LineEnd       int      `json:"line_end,omitempty"`
	CodeSnippet   string   `json:"code_snippet,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
	SuggestedCode string   `json:"suggested_code,omitempty"`
}

// FileReview holds the outcome of reviewing one file or snippet.
// Degraded marks reviews whose model response could not be parsed.
type FileReview struct {
	Filename    string  `json:"filename"`
	Language    string  `json:"language"`
	LinesOfCode int     `json:"lines_of_code"`
	Issues      []Issue `json:"issues"`
	Summary     string  `json:"summary,omitempty"`
	Degraded    bool    `json:"degraded,omitempty"`
}

// IssueCounts returns the per-severity breakdown of this file's issues.
func (f *FileReview) IssueCounts() SeverityCounts {
	var c SeverityCounts
	for _, issue := range f.Issues {
		c.Add(issue.Severity)
	}
	return c
}

// Aggregate Root: ReviewResult
//
// TotalIssues is kept as a running sum by AddFileReview and always equals
// the sum of issue counts across files.
type ReviewResult struct {
	ID             string       `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	Files          []FileReview `json:"files"`
	TotalIssues    int          `json:"total_issues"`
	ReviewTimeMS   int64        `json:"review_time_ms"`
	OverallSummary string       `json:"overall_summary,omitempty"`
	OverallScore   int          `json:"overall_score"`
	ArtifactURL    string       `json:"artifact_url,omitempty"`
}

// AddFileReview appends a file review and updates the running issue total.
func (r *ReviewResult) AddFileReview(f FileReview) {
	r.Files = append(r.Files, f)
	r.TotalIssues += len(f.Issues)
}

// SeverityBreakdown aggregates issue counts across all files.
func (r *ReviewResult) SeverityBreakdown() SeverityCounts {
	var c SeverityCounts
	for i := range r.Files {
		for _, issue := range r.Files[i].Issues {
			c.Add(issue.Severity)
		}
	}
	return c
}
