package ports

import (
	"context"

	"github.com/toniu/playscore/internal/core/domain"
)

// AnalysisRepository stores analysis runs and their results.
type AnalysisRepository interface {
	Save(ctx context.Context, a domain.Analysis) error
	GetByID(ctx context.Context, id string) (domain.Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Analysis, error)
}
