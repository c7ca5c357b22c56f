package github

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appreview "github.com/amrgaberm/codesense/internal/application/review"
	"github.com/amrgaberm/codesense/internal/domain/language"
	domain "github.com/amrgaberm/codesense/internal/domain/review"
	"github.com/amrgaberm/codesense/internal/output"
)

const maxBodyBytes = 5 << 20

// Webhook handles GitHub pull_request events: signature-verified,
// patch-based, per-file review posted back as one PR comment.
type Webhook struct {
	secret []byte
	svc    *appreview.Service
	gh     *Client
}

func NewWebhook(secret string, svc *appreview.Service, gh *Client) *Webhook {
	return &Webhook{secret: []byte(secret), svc: svc, gh: gh}
}

type pullRequestEvent struct {
	Action      string `json:"action"`
	PullRequest struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
	} `json:"pull_request"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// Handle verifies the signature, filters events, acknowledges fast and
// reviews the PR in the background.
func (h *Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	sig := r.Header.Get("X-Hub-Signature-256")
	if sig == "" {
		http.Error(w, "missing signature", http.StatusBadRequest)
		return
	}
	if !h.verifySignature(body, sig) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	if event := r.Header.Get("X-GitHub-Event"); event != "pull_request" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "event": event})
		return
	}

	var ev pullRequestEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	switch ev.Action {
	case "opened", "synchronize", "reopened":
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "action": ev.Action})
		return
	}

	// Acknowledge fast; the review happens in the background with its
	// own context so the webhook delivery never times out.
	go h.process(ev)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":   "queued",
		"pr":       ev.PullRequest.Number,
		"repo":     ev.Repository.FullName,
		"queuedAt": time.Now(),
	})
}

func (h *Webhook) verifySignature(body []byte, header string) bool {
	expected, err := hex.DecodeString(strings.TrimPrefix(header, "sha256="))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

func (h *Webhook) process(ev pullRequestEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log := logrus.WithFields(logrus.Fields{
		"repo": ev.Repository.FullName,
		"pr":   ev.PullRequest.Number,
	})

	files, err := h.gh.PullRequestFiles(ctx, ev.Repository.FullName, ev.PullRequest.Number)
	if err != nil {
		log.WithError(err).Error("webhook: fetching pr files failed")
		return
	}

	result := &domain.ReviewResult{
		ID:        uuid.New().String()[:8],
		Timestamp: time.Now(),
	}
	start := time.Now()

	for _, f := range files {
		if f.Patch == "" || f.Status == "removed" || !language.Supported(f.Filename) {
			continue
		}
		fr, err := h.svc.ReviewPatch(ctx, f.Filename, f.Patch, domain.TypeFull)
		if err != nil {
			// One file's failure never aborts the rest of the PR.
			log.WithError(err).WithField("file", f.Filename).Warn("webhook: patch review failed")
			result.AddFileReview(domain.FileReview{
				Filename: f.Filename,
				Language: language.Detect("", f.Filename),
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

	if len(result.Files) == 0 {
		log.Info("webhook: no reviewable files in pr")
		return
	}

	result.ReviewTimeMS = time.Since(start).Milliseconds()
	result.OverallScore = domain.Score(result.SeverityBreakdown())

	body, err := output.Markdown(result)
	if err != nil {
		log.WithError(err).Error("webhook: rendering comment failed")
		return
	}
	body += "\n---\n*Automated code review by CodeSense AI*"

	if err := h.gh.CreateIssueComment(ctx, ev.Repository.FullName, ev.PullRequest.Number, body); err != nil {
		log.WithError(err).Error("webhook: posting comment failed")
		return
	}
	log.WithField("issues", result.TotalIssues).Info("webhook: review comment posted")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
