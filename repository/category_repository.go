package repository

import (
	"context"
	"fmt"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByGroupID(ctx context.Context, groupID string) ([]models.Category, error)
	GetActiveByGroupID(ctx context.Context, groupID string) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	WithTx(tx database.Querier) CategoryRepository
}

type categoryRepository struct {
	db *database.DB
	tx database.Querier
}

func NewCategoryRepository(db *database.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx database.Querier) CategoryRepository {
	return &categoryRepository{db: r.db, tx: tx}
}

func (r *categoryRepository) getQuerier() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Pool
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	query := `SELECT id, group_id, name, active, created_at, updated_at
	          FROM categories WHERE id = $1`

	err := r.getQuerier().QueryRow(ctx, query, id).Scan(
		&category.ID, &category.GroupID, &category.Name, &category.Active,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting category by id: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByGroupID(ctx context.Context, groupID string) ([]models.Category, error) {
	return r.queryCategories(ctx,
		`SELECT id, group_id, name, active, created_at, updated_at
		 FROM categories WHERE group_id = $1 ORDER BY name`, groupID)
}

func (r *categoryRepository) GetActiveByGroupID(ctx context.Context, groupID string) ([]models.Category, error) {
	return r.queryCategories(ctx,
		`SELECT id, group_id, name, active, created_at, updated_at
		 FROM categories WHERE group_id = $1 AND active = true ORDER BY name`, groupID)
}

func (r *categoryRepository) queryCategories(ctx context.Context, query string, args ...interface{}) ([]models.Category, error) {
	rows, err := r.getQuerier().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("getting categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID, &category.GroupID, &category.Name, &category.Active,
			&category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (id, group_id, name, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW())`

	_, err := r.getQuerier().Exec(ctx, query, category.ID, category.GroupID, category.Name, category.Active)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = $1, active = $2, updated_at = NOW() WHERE id = $3`

	_, err := r.getQuerier().Exec(ctx, query, category.Name, category.Active, category.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}
