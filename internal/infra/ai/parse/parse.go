// Package parse recovers structured review data from raw model output.
//
// Models are prompted to return pure JSON but frequently wrap it in prose
// or code fences, or emit trailing commas. The recovery here is a narrow
// best-effort text transform, not a full JSON repair: it is expected to
// fail on some malformed inputs, and failure is a data value the caller
// can render, never a hard error.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

const maxRawResponse = 500

var (
	fenceRe            = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	trailingCommaObjRe = regexp.MustCompile(`,\s*}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*]`)
)

// Issue is one issue entry as emitted by the model, before mapping to
// domain enums.
type Issue struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
	Category      string `json:"category"`
	LineStart     int    `json:"line_start"`
	LineEnd       int    `json:"line_end"`
	CodeSnippet   string `json:"code_snippet"`
	Suggestion    string `json:"suggestion"`
	SuggestedCode string `json:"suggested_code"`
}

// Degradation records an unparsable model response. It is an inspectable
// result, not an error: the caller renders a degraded review instead of
// crashing.
type Degradation struct {
	Reason      string `json:"error"`
	RawResponse string `json:"raw_response"`
	ParseErr    string `json:"parse_error"`
}

// Result is the recovered review payload.
type Result struct {
	Summary       string
	QualityScore  float64
	Issues        []Issue
	SkippedIssues int
	Degraded      *Degradation
}

// Response extracts and repairs JSON from raw model text.
//
// Recovery order: fenced block; else widest brace span; trim; strict
// parse; on failure delete trailing commas before } and ] and parse once
// more; still failing, return a Degradation carrying the first 500
// characters of the candidate and the parse error.
func Response(content string) *Result {
	candidate := content
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		candidate = m[1]
	} else if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			candidate = content[start : end+1]
		}
	}
	candidate = strings.TrimSpace(candidate)

	doc, err := decode(candidate)
	if err != nil {
		repaired := trailingCommaObjRe.ReplaceAllString(candidate, "}")
		repaired = trailingCommaArrRe.ReplaceAllString(repaired, "]")
		doc, err = decode(repaired)
		if err != nil {
			return &Result{Degraded: &Degradation{
				Reason:      "failed to parse model response",
				RawResponse: truncate(candidate, maxRawResponse),
				ParseErr:    err.Error(),
			}}
		}
	}

	res := &Result{Summary: doc.Summary, QualityScore: doc.QualityScore}
	for _, raw := range doc.Issues {
		var issue Issue
		if err := json.Unmarshal(raw, &issue); err != nil {
			res.SkippedIssues++
			continue
		}
		res.Issues = append(res.Issues, issue)
	}
	return res
}

type wireDoc struct {
	Summary      string            `json:"summary"`
	QualityScore float64           `json:"quality_score"`
	Issues       []json.RawMessage `json:"issues"`
}

func decode(candidate string) (*wireDoc, error) {
	var doc wireDoc
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
