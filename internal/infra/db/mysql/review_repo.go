package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	domain "github.com/amrgaberm/codesense/internal/domain/review"
)

// ReviewRepository persists completed review results. File reviews are
// serialized to a JSON column; only aggregate columns are queryable.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Save insert/update a review result record
func (r *ReviewRepository) Save(ctx context.Context, res *domain.ReviewResult) error {
	const q = `
INSERT INTO code_reviews
(id, created_at, total_issues, overall_score, review_time_ms, overall_summary, artifact_url, files_json)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 total_issues=VALUES(total_issues),
 overall_score=VALUES(overall_score),
 review_time_ms=VALUES(review_time_ms),
 overall_summary=VALUES(overall_summary),
 artifact_url=VALUES(artifact_url),
 files_json=VALUES(files_json);
`
	files, err := json.Marshal(res.Files)
	if err != nil {
		return fmt.Errorf("marshal file reviews: %w", err)
	}
	created := res.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		res.ID, created, res.TotalIssues, res.OverallScore, res.ReviewTimeMS,
		res.OverallSummary, res.ArtifactURL, files,
	)
	return err
}

// Get by ID
func (r *ReviewRepository) Get(ctx context.Context, id string) (*domain.ReviewResult, error) {
	const q = `
SELECT id, created_at, total_issues, overall_score, review_time_ms, overall_summary, artifact_url, files_json
FROM code_reviews
WHERE id=? LIMIT 1;
`
	return scanReview(r.db.QueryRowContext(ctx, q, id))
}

// Latest reviews, newest first
func (r *ReviewRepository) Latest(ctx context.Context, limit int) ([]*domain.ReviewResult, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, created_at, total_issues, overall_score, review_time_ms, overall_summary, artifact_url, files_json
FROM code_reviews
ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ReviewResult
	for rows.Next() {
		res, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Paginate with offset + limit (classic pagination)
func (r *ReviewRepository) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM code_reviews;`).Scan(&total); err != nil {
		return domain.PaginatedResult{}, err
	}

	const q = `
SELECT id, created_at, total_issues, overall_score, review_time_ms, overall_summary, artifact_url, files_json
FROM code_reviews
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, err
	}
	defer rows.Close()

	var data []*domain.ReviewResult
	for rows.Next() {
		res, err := scanReview(rows)
		if err != nil {
			return domain.PaginatedResult{}, err
		}
		data = append(data, res)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, err
	}

	return domain.PaginatedResult{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*domain.ReviewResult, error) {
	var res domain.ReviewResult
	var files []byte
	if err := row.Scan(
		&res.ID, &res.Timestamp, &res.TotalIssues, &res.OverallScore, &res.ReviewTimeMS,
		&res.OverallSummary, &res.ArtifactURL, &files,
	); err != nil {
		return nil, err
	}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &res.Files); err != nil {
			return nil, fmt.Errorf("unmarshal file reviews: %w", err)
		}
	}
	return &res, nil
}
