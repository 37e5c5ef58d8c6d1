package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// CategoryReader handles read operations for categories.
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error)
	FindCategoryByName(ctx context.Context, userID string, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// CategoryWriter handles write operations for categories.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, userID string, categoryID string) error
}

// CategoryRepositoryFacade combines all category repository capabilities.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
