package output

import (
	"io"
	"strings"

	"github.com/amrgaberm/codesense/internal/domain/review"
)

// TextWriter outputs a human-readable terminal report.
type TextWriter struct{}

var severityOrder = []review.Severity{
	review.SeverityCritical,
	review.SeverityHigh,
	review.SeverityMedium,
	review.SeverityLow,
	review.SeverityInfo,
}

func (t *TextWriter) Write(w io.Writer, result *review.ReviewResult) error {
	ew := &errWriter{w: w}

	ew.printf("CodeSense Review %s\n", result.ID)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d | Issues: %d | Score: %d/100 | Time: %dms\n",
		len(result.Files), result.TotalIssues, result.OverallScore, result.ReviewTimeMS)
	if result.OverallSummary != "" {
		ew.printf("%s\n", result.OverallSummary)
	}
	ew.println(strings.Repeat("─", 60))

	for i := range result.Files {
		writeFileText(ew, &result.Files[i])
	}

	return ew.err
}

func writeFileText(ew *errWriter, f *review.FileReview) {
	ew.printf("\n%s (%s, %d lines)\n", f.Filename, f.Language, f.LinesOfCode)
	if f.Summary != "" {
		ew.printf("  %s\n", f.Summary)
	}
	if len(f.Issues) == 0 {
		ew.println("  No issues found. Looks good!")
		return
	}

	grouped := make(map[review.Severity][]review.Issue)
	for _, issue := range f.Issues {
		grouped[issue.Severity] = append(grouped[issue.Severity], issue)
	}

	for _, sev := range severityOrder {
		for _, issue := range grouped[sev] {
			ew.printf("\n  [%s] %s (%s)\n", strings.ToUpper(string(sev)), issue.Title, issue.Category)
			if issue.LineStart > 0 {
				if issue.LineEnd > issue.LineStart {
					ew.printf("    Lines %d-%d\n", issue.LineStart, issue.LineEnd)
				} else {
					ew.printf("    Line %d\n", issue.LineStart)
				}
			}
			ew.printf("    %s\n", issue.Description)
			if issue.CodeSnippet != "" {
				ew.printf("    Code: %s\n", issue.CodeSnippet)
			}
			if issue.Suggestion != "" {
				ew.printf("    Suggestion: %s\n", issue.Suggestion)
			}
		}
	}
}
