package prompt

import (
	"fmt"

	"github.com/amrgaberm/codesense/internal/domain/review"
)

// GetSystemPrompt provides the reviewer persona and demands JSON-only output.
func GetSystemPrompt() string {
	return `You are CodeSense AI, an expert code reviewer. Analyze code for bugs, security issues, and best practices. Always respond with valid JSON only, no markdown.`
}

// reviewShape is the JSON shape requested from the model. It must stay
// stable across calls so the parser's assumptions hold.
const reviewShape = `{"summary": "brief assessment", "quality_score": 85, "issues": [{"title": "Issue name", "description": "Details", "severity": "critical|high|medium|low|info", "category": "security|bug|performance|style|best_practice", "line_start": 1, "suggestion": "How to fix"}]}`

// GetUserPrompt embeds the code and the requested JSON shape.
// The review type alters framing only, never the output shape.
func GetUserPrompt(code, language, filename string, reviewType review.Type) string {
	focus := ""
	switch reviewType {
	case review.TypeSecurity:
		focus = "Focus exclusively on security vulnerabilities: injection, secrets, unsafe deserialization, authentication and authorization flaws.\n"
	case review.TypeQuick:
		focus = "Report only the top 3-5 most important issues.\n"
	}
	return fmt.Sprintf("Review this %s code from %s:\n```\n%s\n```\n\n%sRespond ONLY with this JSON format:\n%s",
		language, filename, code, focus, reviewShape)
}

// GetDiffPrompt builds the user message for a per-file pull-request patch.
// The patch is a unified diff; the requested shape is the same as for
// whole-file reviews so a single parser serves both.
func GetDiffPrompt(filename, patch string, reviewType review.Type) string {
	focus := ""
	if reviewType == review.TypeSecurity {
		focus = "Focus exclusively on security vulnerabilities introduced by this change.\n"
	}
	return fmt.Sprintf("Review this pull request patch for %s. Only comment on the changed lines:\n```diff\n%s\n```\n\n%sRespond ONLY with this JSON format:\n%s",
		filename, patch, focus, reviewShape)
}
