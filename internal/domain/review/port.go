package review

import "context"

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []*ReviewResult `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

// Repository port (interface for optional review history persistence)
type Repository interface {
	Save(ctx context.Context, r *ReviewResult) error
	Get(ctx context.Context, id string) (*ReviewResult, error)
	Latest(ctx context.Context, limit int) ([]*ReviewResult, error)
	Paginate(ctx context.Context, page, pageSize int) (PaginatedResult, error)
}

// ArchiveStore port (interface for rendered report archiving)
type ArchiveStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
