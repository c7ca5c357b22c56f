package review

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amrgaberm/codesense/internal/application"
	domai "github.com/amrgaberm/codesense/internal/domain/ai"
	"github.com/amrgaberm/codesense/internal/domain/language"
	domain "github.com/amrgaberm/codesense/internal/domain/review"
	"github.com/amrgaberm/codesense/internal/infra/ai/parse"
)

// Service implements the review use-cases. The client is injected at
// construction; there is no lazy process-wide handle. History and
// Archive are optional collaborator surfaces and may be nil.
type Service struct {
	Client  domai.Client
	History domain.Repository
	Archive domain.ArchiveStore
	Clock   application.Clock
}

// ReviewCode reviews a single piece of code. A parse degradation becomes
// one synthetic informational issue; the review never aborts on bad
// model output. Transport and configuration errors surface to the caller.
func (s *Service) ReviewCode(ctx context.Context, code, filename, lang string, reviewType domain.Type) (*domain.FileReview, error) {
	if lang == "" {
		lang = language.Detect(code, filename)
	}
	if filename == "" {
		filename = "code"
	}
	lines := countLines(code)

	raw, err := s.Client.Analyze(ctx, domai.Request{
		Code:       code,
		Language:   lang,
		Filename:   filename,
		ReviewType: reviewType,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", filename, err)
	}

	res := parse.Response(raw)
	if res.Degraded != nil {
		logrus.WithFields(logrus.Fields{
			"filename":    filename,
			"parse_error": res.Degraded.ParseErr,
		}).Warn("model response unparsable, degrading review")
		return &domain.FileReview{
			Filename:    filename,
			Language:    lang,
			LinesOfCode: lines,
			Issues:      []domain.Issue{degradedIssue(res.Degraded)},
			Summary:     "Analysis encountered an error",
			Degraded:    true,
		}, nil
	}
	if res.SkippedIssues > 0 {
		logrus.WithFields(logrus.Fields{
			"filename": filename,
			"skipped":  res.SkippedIssues,
		}).Warn("dropped malformed issue entries from model response")
	}

	issues := make([]domain.Issue, 0, len(res.Issues))
	for _, wire := range res.Issues {
		issues = append(issues, mapIssue(wire))
	}
	return &domain.FileReview{
		Filename:    filename,
		Language:    lang,
		LinesOfCode: lines,
		Issues:      issues,
		Summary:     res.Summary,
	}, nil
}

// ReviewFile reads a file from disk and reviews its content.
func (s *Service) ReviewFile(ctx context.Context, path string, reviewType domain.Type) (*domain.FileReview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ReviewCode(ctx, string(data), path, "", reviewType)
}

// ReviewPatch reviews one pull-request patch (unified diff) for a file.
func (s *Service) ReviewPatch(ctx context.Context, filename, patch string, reviewType domain.Type) (*domain.FileReview, error) {
	raw, err := s.Client.AnalyzeDiff(ctx, domai.DiffRequest{
		Filename:   filename,
		Patch:      patch,
		ReviewType: reviewType,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze patch %s: %w", filename, err)
	}

	res := parse.Response(raw)
	lang := language.Detect("", filename)
	lines := countLines(patch)
	if res.Degraded != nil {
		logrus.WithFields(logrus.Fields{
			"filename":    filename,
			"parse_error": res.Degraded.ParseErr,
		}).Warn("model response unparsable, degrading patch review")
		return &domain.FileReview{
			Filename:    filename,
			Language:    lang,
			LinesOfCode: lines,
			Issues:      []domain.Issue{degradedIssue(res.Degraded)},
			Summary:     "Analysis encountered an error",
			Degraded:    true,
		}, nil
	}

	issues := make([]domain.Issue, 0, len(res.Issues))
	for _, wire := range res.Issues {
		issues = append(issues, mapIssue(wire))
	}
	return &domain.FileReview{
		Filename:    filename,
		Language:    lang,
		LinesOfCode: lines,
		Issues:      issues,
		Summary:     res.Summary,
	}, nil
}

// ReviewPaths reviews files sequentially, file by file. A single file's
// failure yields a synthetic error FileReview without aborting the batch;
// timing, summary and score are computed only after all files complete.
func (s *Service) ReviewPaths(ctx context.Context, paths []string, reviewType domain.Type) (*domain.ReviewResult, error) {
	start := s.Clock.Now()
	result := &domain.ReviewResult{
		ID:        uuid.New().String()[:8],
		Timestamp: start,
	}

	for _, path := range paths {
		fr, err := s.ReviewFile(ctx, path, reviewType)
		if err != nil {
			logrus.WithError(err).WithField("path", path).Warn("file review failed")
			result.AddFileReview(domain.FileReview{
				Filename: path,
				Language: "unknown",
				Issues: []domain.Issue{{
					Title:       "File Processing Error",
					Description: err.Error(),
					Severity:    domain.SeverityInfo,
					Category:    domain.CategoryDocumentation,
				}},
			})
			continue
		}
		result.AddFileReview(*fr)
	}

	result.ReviewTimeMS = s.Clock.Now().Sub(start).Milliseconds()
	breakdown := result.SeverityBreakdown()
	result.OverallSummary = overallSummary(result.TotalIssues, breakdown)
	result.OverallScore = domain.Score(breakdown)

	s.persist(ctx, result)
	return result, nil
}

// persist archives the rendered JSON report and saves the history row
// when those collaborators are configured. Failures are logged, not
// surfaced: the review itself already succeeded.
func (s *Service) persist(ctx context.Context, result *domain.ReviewResult) {
	if s.Archive != nil {
		data, err := json.MarshalIndent(result, "", "  ")
		if err == nil {
			key := fmt.Sprintf("reviews/%s/%s.json", result.ID, uuid.New().String())
			url, aerr := s.Archive.Put(ctx, key, "application/json", data)
			if aerr != nil {
				logrus.WithError(aerr).Warn("report archive failed")
			} else {
				result.ArtifactURL = url
			}
		}
	}
	if s.History != nil {
		if err := s.History.Save(ctx, result); err != nil {
			logrus.WithError(err).Warn("review history save failed")
		}
	}
}

func mapIssue(wire parse.Issue) domain.Issue {
	title := wire.Title
	if title == "" {
		title = "Unknown Issue"
	}
	desc := wire.Description
	if desc == "" {
		desc = "No description provided"
	}
	return domain.Issue{
		Title:         title,
		Description:   desc,
		Severity:      domain.ParseSeverity(strings.ToLower(wire.Severity)),
		Category:      domain.ParseCategory(strings.ToLower(wire.Category)),
		LineStart:     wire.LineStart,
		LineEnd:       wire.LineEnd,
		CodeSnippet:   wire.CodeSnippet,
		Suggestion:    wire.Suggestion,
		SuggestedCode: wire.SuggestedCode,
	}
}

func degradedIssue(d *parse.Degradation) domain.Issue {
	return domain.Issue{
		Title:       "Analysis Error",
		Description: fmt.Sprintf("Failed to analyze code: %s", d.ParseErr),
		Severity:    domain.SeverityInfo,
		Category:    domain.CategoryDocumentation,
		Suggestion:  "Please try again or check your code format",
	}
}

func overallSummary(total int, c domain.SeverityCounts) string {
	if total == 0 {
		return "No issues found. The code looks good."
	}
	var parts []string
	if c.Critical > 0 {
		parts = append(parts, fmt.Sprintf("%d critical", c.Critical))
	}
	if c.High > 0 {
		parts = append(parts, fmt.Sprintf("%d high", c.High))
	}
	if c.Medium > 0 {
		parts = append(parts, fmt.Sprintf("%d medium", c.Medium))
	}
	if c.Low > 0 {
		parts = append(parts, fmt.Sprintf("%d low", c.Low))
	}
	if c.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", c.Info))
	}
	summary := fmt.Sprintf("Found %d issues: %s.", total, strings.Join(parts, ", "))
	if c.Critical > 0 {
		summary += " Critical issues require immediate attention!"
	}
	return summary
}

// countLines mirrors newline splitting without counting a trailing
// newline as an extra line.
func countLines(code string) int {
	if code == "" {
		return 0
	}
	lines := strings.Split(code, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return len(lines)
}
