package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appreview "github.com/amrgaberm/codesense/internal/application/review"
	domai "github.com/amrgaberm/codesense/internal/domain/ai"
	"github.com/amrgaberm/codesense/internal/domain/language"
	domain "github.com/amrgaberm/codesense/internal/domain/review"
	"github.com/amrgaberm/codesense/internal/infra/github"
	"github.com/amrgaberm/codesense/internal/middleware"
)

const serviceVersion = "1.0.0"

type Router struct {
	svc     *appreview.Service
	history domain.Repository
	webhook *github.Webhook
}

// NewRouter wires the review endpoints. History endpoints appear only
// when a repository is configured; the webhook route only when a
// webhook handler is supplied.
func NewRouter(svc *appreview.Service, history domain.Repository, webhook *github.Webhook, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, history: history, webhook: webhook}
	mux := chi.NewRouter()

	mux.Get("/", r.wrap(r.handleInfo))
	mux.Get("/health", middleware.HealthHandler(svc.Client.Name(), checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/review", r.wrap(r.handleReview(domain.Type(""))))
		rt.Post("/review/quick", r.wrap(r.handleReview(domain.TypeQuick)))
		rt.Post("/review/security", r.wrap(r.handleReview(domain.TypeSecurity)))
		rt.Get("/languages", r.wrap(r.handleLanguages))
		rt.Get("/detect-language", r.wrap(r.handleDetectLanguage))

		if r.history != nil {
			rt.Get("/reviews", r.wrap(r.handleReviewList))
			rt.Get("/reviews/{id}", r.wrap(r.handleReviewGet))
		}
	})

	if webhook != nil {
		mux.Post("/webhook/github", webhook.Handle)
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client errors that map to HTTP 400.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br *badRequestError
			switch {
			case errors.As(err, &br):
				http.Error(w, br.msg, http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, domai.ErrNoCredentials):
				http.Error(w, "service not configured: "+err.Error(), http.StatusServiceUnavailable)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// GET /
func (r *Router) handleInfo(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{
		"name":        "CodeSense AI",
		"version":     serviceVersion,
		"description": "AI-Powered Code Review Assistant",
		"health":      "/health",
	})
}

type reviewRequest struct {
	Code       string `json:"code"`
	Filename   string `json:"filename"`
	Language   string `json:"language"`
	ReviewType string `json:"review_type"`
}

type reviewResponse struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	Language     string         `json:"language"`
	LinesOfCode  int            `json:"lines_of_code"`
	TotalIssues  int            `json:"total_issues"`
	QualityScore int            `json:"quality_score"`
	Summary      string         `json:"summary,omitempty"`
	Issues       []domain.Issue `json:"issues"`
	ReviewTimeMS int64          `json:"review_time_ms"`
}

// POST /api/review (+ /quick, /security forced-type wrappers)
func (r *Router) handleReview(forced domain.Type) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		start := time.Now()

		var body reviewRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return badRequest("invalid request body: %v", err)
		}
		if err := middleware.ValidateCode(body.Code); err != nil {
			return badRequest("%v", err)
		}
		if err := middleware.ValidateFilename(body.Filename); err != nil {
			return badRequest("%v", err)
		}
		if err := middleware.ValidateReviewType(body.ReviewType); err != nil {
			return badRequest("%v", err)
		}

		reviewType := forced
		if reviewType == "" {
			reviewType = domain.ParseType(body.ReviewType)
		}

		middleware.IncrementReviews()
		fr, err := r.svc.ReviewCode(req.Context(), body.Code, body.Filename, body.Language, reviewType)
		if err != nil {
			middleware.IncrementReviewsFailed()
			return err
		}
		if fr.Degraded {
			middleware.IncrementReviewsDegraded()
		}

		issues := fr.Issues
		if issues == nil {
			issues = []domain.Issue{}
		}
		return writeJSON(w, http.StatusOK, reviewResponse{
			ID:           uuid.New().String()[:8],
			Filename:     fr.Filename,
			Language:     fr.Language,
			LinesOfCode:  fr.LinesOfCode,
			TotalIssues:  len(fr.Issues),
			QualityScore: domain.Score(fr.IssueCounts()),
			Summary:      fr.Summary,
			Issues:       issues,
			ReviewTimeMS: time.Since(start).Milliseconds(),
		})
	}
}

// GET /api/languages
func (r *Router) handleLanguages(w http.ResponseWriter, req *http.Request) error {
	byLang := make(map[string][]string)
	for ext, lang := range language.Extensions() {
		byLang[lang] = append(byLang[lang], ext)
	}

	names := make([]string, 0, len(byLang))
	for lang := range byLang {
		names = append(names, lang)
	}
	sort.Strings(names)

	type langEntry struct {
		Name       string   `json:"name"`
		Extensions []string `json:"extensions"`
	}
	entries := make([]langEntry, 0, len(names))
	for _, lang := range names {
		exts := byLang[lang]
		sort.Strings(exts)
		entries = append(entries, langEntry{Name: lang, Extensions: exts})
	}
	return writeJSON(w, http.StatusOK, map[string]any{"languages": entries})
}

// GET /api/detect-language?filename=&code=
func (r *Router) handleDetectLanguage(w http.ResponseWriter, req *http.Request) error {
	filename := req.URL.Query().Get("filename")
	code := req.URL.Query().Get("code")
	if filename == "" && code == "" {
		return badRequest("provide either filename or code parameter")
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"language": language.Detect(code, filename),
		"filename": filename,
	})
}

// GET /api/reviews?page=&page_size=
func (r *Router) handleReviewList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.history.Paginate(req.Context(),
		middleware.ValidatePage(page), middleware.ValidatePageSize(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/reviews/{id}
func (r *Router) handleReviewGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	result, err := r.history.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
