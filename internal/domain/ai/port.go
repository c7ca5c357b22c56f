package ai

import (
	"context"

	"github.com/amrgaberm/codesense/internal/domain/review"
)

// Request carries one piece of code to review.
type Request struct {
	Code       string
	Language   string
	Filename   string
	ReviewType review.Type
}

// DiffRequest carries one pull-request patch to review.
type DiffRequest struct {
	Filename   string
	Patch      string
	ReviewType review.Type
}

// Client is the LLM port. One outbound call per invocation, no retry,
// no caching. Implementations return the raw model text; recovering
// structure from it is the parser's job.
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
	AnalyzeDiff(ctx context.Context, req DiffRequest) (string, error)
	Name() string
}
