package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/amrgaberm/codesense/internal/domain/review"
)

func sampleResult() *review.ReviewResult {
	r := &review.ReviewResult{ID: "abc12345", OverallSummary: "Found 2 issues: 1 critical, 1 low."}
	r.AddFileReview(review.FileReview{
		Filename:    "app.py",
		Language:    "python",
		LinesOfCode: 10,
		Summary:     "Needs work",
		Issues: []review.Issue{
			{
				Title:       "SQL injection",
				Description: "Query built from user input",
				Severity:    review.SeverityCritical,
				Category:    review.CategorySecurity,
				LineStart:   3,
				LineEnd:     5,
				Suggestion:  "Use parameterized queries",
			},
			{
				Title:       "Long line",
				Description: "Line exceeds 120 characters",
				Severity:    review.SeverityLow,
				Category:    review.CategoryStyle,
				LineStart:   8,
			},
		},
	})
	r.OverallScore = review.Score(r.SeverityBreakdown())
	return r
}

func TestGetWriter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"text", false},
		{"json", false},
		{"markdown", false},
		{"md", false},
		{"yaml", true},
	}
	for _, tt := range tests {
		_, err := GetWriter(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("GetWriter(%q) err = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"CodeSense Review abc12345",
		"app.py (python, 10 lines)",
		"[CRITICAL] SQL injection (security)",
		"Lines 3-5",
		"[LOW] Long line (style)",
		"Line 8",
		"Suggestion: Use parameterized queries",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	// Critical must render before low regardless of input order.
	if strings.Index(out, "[CRITICAL]") > strings.Index(out, "[LOW]") {
		t.Error("severity ordering not applied")
	}
}

func TestTextWriter_CleanFile(t *testing.T) {
	r := &review.ReviewResult{ID: "abc12345", OverallScore: 100}
	r.AddFileReview(review.FileReview{Filename: "a.py", Language: "python"})

	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, r); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found. Looks good!") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestJSONWriter_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded review.ReviewResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "abc12345" || decoded.TotalIssues != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestMarkdownWriter(t *testing.T) {
	out, err := Markdown(sampleResult())
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}

	for _, want := range []string{
		"## CodeSense AI Review",
		"**Quality Score:** 72/100",
		"| Critical | 1",
		"<details>",
		"<code>app.py</code>",
		"### SQL injection",
		"**CRITICAL** | security | Lines 3-5",
		"**Suggestion:** Use parameterized queries",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_NoIssues(t *testing.T) {
	out, err := Markdown(&review.ReviewResult{ID: "abc12345", OverallScore: 100})
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(out, "No issues found. :white_check_mark:") {
		t.Errorf("markdown = %s", out)
	}
	if strings.Contains(out, "<details>") {
		t.Errorf("clean report should not list files: %s", out)
	}
}
