package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, color, created_at, updated_at`

func toModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID: d.CategoryID,
		UserID:     d.UserID,
		Name:       d.Name,
		Color:      d.Color,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

func toDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID: m.CategoryID,
		UserID:     m.UserID,
		Name:       m.Name,
		Color:      m.Color,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func scanCategory(row interface{ Scan(dest ...any) error }) (models.Category, error) {
	var m models.Category
	err := row.Scan(&m.CategoryID, &m.UserID, &m.Name, &m.Color, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := toModelCategory(category)

	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.CategoryID, m.UserID, m.Name, m.Color, m.CreatedAt, m.UpdatedAt)
	return translateError(err, "save category")
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND user_id = $2;`

	m, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		return nil, translateError(err, "find category")
	}
	d := toDomainCategory(m)
	return &d, nil
}

func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, userID string, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND lower(name) = lower($2);`

	m, err := scanCategory(r.Pool.QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, translateError(err, "find category by name")
	}
	d := toDomainCategory(m)
	return &d, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, translateError(err, "list categories")
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, translateError(err, "scan category row")
		}
		categories = append(categories, toDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate category rows")
	}
	return categories, nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := toModelCategory(category)

	query := `
		UPDATE categories
		SET name = $3, color = $4, updated_at = $5
		WHERE category_id = $1 AND user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.CategoryID, m.UserID, m.Name, m.Color, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update category")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Transactions referencing it keep
// existing with a NULL category reference (ON DELETE SET NULL).
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	query := `DELETE FROM categories WHERE category_id = $1 AND user_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return translateError(err, "delete category")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
