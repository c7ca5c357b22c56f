package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/amrgaberm/codesense/internal/domain/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report. It is
// also the body renderer for GitHub webhook comments.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, result *review.ReviewResult) error {
	breakdown := result.SeverityBreakdown()

	fmt.Fprintf(w, "## CodeSense AI Review\n\n")
	fmt.Fprintf(w, "**Quality Score:** %d/100\n\n", result.OverallScore)

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	fmt.Fprintf(w, "| Critical | %d    |\n", breakdown.Critical)
	fmt.Fprintf(w, "| High     | %d    |\n", breakdown.High)
	fmt.Fprintf(w, "| Medium   | %d    |\n", breakdown.Medium)
	fmt.Fprintf(w, "| Low      | %d    |\n", breakdown.Low)
	fmt.Fprintf(w, "| Info     | %d    |\n", breakdown.Info)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", result.TotalIssues)

	if result.OverallSummary != "" {
		fmt.Fprintf(w, "%s\n\n", result.OverallSummary)
	}

	if result.TotalIssues == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
		return nil
	}

	for i := range result.Files {
		writeFileMarkdown(w, &result.Files[i])
	}

	fmt.Fprintf(w, "*Reviewed in %dms*\n", result.ReviewTimeMS)
	return nil
}

func writeFileMarkdown(w io.Writer, f *review.FileReview) {
	fmt.Fprintf(w, "<details>\n<summary><code>%s</code> — %d issue(s)</summary>\n\n", f.Filename, len(f.Issues))

	if f.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", f.Summary)
	}

	for _, issue := range f.Issues {
		fmt.Fprintf(w, "### %s\n\n", issue.Title)
		loc := ""
		if issue.LineStart > 0 {
			loc = fmt.Sprintf(" | Line %d", issue.LineStart)
			if issue.LineEnd > issue.LineStart {
				loc = fmt.Sprintf(" | Lines %d-%d", issue.LineStart, issue.LineEnd)
			}
		}
		fmt.Fprintf(w, "**%s** | %s%s\n\n", strings.ToUpper(string(issue.Severity)), issue.Category, loc)
		fmt.Fprintf(w, "%s\n\n", issue.Description)
		if issue.Suggestion != "" {
			fmt.Fprintf(w, "**Suggestion:** %s\n\n", issue.Suggestion)
		}
		if issue.SuggestedCode != "" {
			fmt.Fprintf(w, "```%s\n%s\n```\n\n", f.Language, issue.SuggestedCode)
		}
		fmt.Fprintf(w, "---\n\n")
	}

	fmt.Fprintf(w, "</details>\n\n")
}

// Markdown renders a result to a markdown string.
func Markdown(result *review.ReviewResult) (string, error) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}
