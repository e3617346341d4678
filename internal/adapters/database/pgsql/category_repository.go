package pgsql

import (
	"context"
	"fmt"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/models"
	"github.com/hearthfin/hearth_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = "category_id, name, icon, color, monthly_budget, created_at, created_by, last_updated_at, last_updated_by, version"

// CategoryRepository is the Postgres implementation of category persistence.
type CategoryRepository struct {
	BaseRepository
}

// NewCategoryRepository creates a new repository for category data.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.CategoryRepository = (*CategoryRepository)(nil)

func insertCategoryRow(ctx context.Context, q Querier, m models.Category) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		INSERT INTO categories (category_id, name, icon, color, monthly_budget, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, nextval('sync_version_seq'))
		RETURNING version`,
		m.CategoryID, m.Name, m.Icon, m.Color, m.MonthlyBudget,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

func updateCategoryRow(ctx context.Context, q Querier, m models.Category) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, icon = $3, color = $4, monthly_budget = $5, last_updated_at = $6, last_updated_by = $7, version = nextval('sync_version_seq')
		WHERE category_id = $1
		RETURNING version`,
		m.CategoryID, m.Name, m.Icon, m.Color, m.MonthlyBudget, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

// deleteCategoryRow deletes the category and detaches referencing
// transactions: the denormalized category name survives, the foreign key is
// cleared, and each detached row gets a fresh version so devices pull it.
func deleteCategoryRow(ctx context.Context, q Querier, categoryID string) error {
	_, err := q.Exec(ctx, `
		UPDATE transactions
		SET category_id = NULL, version = nextval('sync_version_seq')
		WHERE category_id = $1`, categoryID)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveCategory inserts a new category.
func (r *CategoryRepository) SaveCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	m := mapping.ToModelCategory(category)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = insertCategoryRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("save category %s", category.CategoryID))
	}
	category.Version = version
	return &category, nil
}

// UpdateCategory updates an existing category.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	m := mapping.ToModelCategory(category)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = updateCategoryRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("update category %s", category.CategoryID))
	}
	category.Version = version
	return &category, nil
}

// DeleteCategory removes a category and detaches its transactions in one
// database transaction.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		return deleteCategoryRow(ctx, tx, categoryID)
	})
	if err != nil {
		return translateErr(err, fmt.Sprintf("delete category %s", categoryID))
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *CategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find category %s", categoryID))
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find category %s", categoryID))
	}
	d := mapping.ToDomainCategory(m)
	return &d, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, translateErr(err, "list categories")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, translateErr(err, "list categories")
	}
	return mapping.ToDomainCategorySlice(ms), nil
}

// ChangedCategoriesSince returns categories whose version token is strictly
// greater than afterVersion.
func (r *CategoryRepository) ChangedCategoriesSince(ctx context.Context, afterVersion int64) ([]domain.Category, error) {
	ms, err := changedCategoryRows(ctx, r.pool, afterVersion)
	if err != nil {
		return nil, translateErr(err, "list changed categories")
	}
	return mapping.ToDomainCategorySlice(ms), nil
}

func changedCategoryRows(ctx context.Context, q Querier, afterVersion int64) ([]models.Category, error) {
	rows, err := q.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE version > $1 ORDER BY version`, afterVersion)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
}

func lockCategoryVersion(ctx context.Context, q Querier, categoryID string) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `SELECT version FROM categories WHERE category_id = $1 FOR UPDATE`, categoryID).Scan(&version)
	if err != nil {
		return 0, translateErr(err, fmt.Sprintf("lock category %s", categoryID))
	}
	return version, nil
}
