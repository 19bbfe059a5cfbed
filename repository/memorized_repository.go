package repository

import (
	"context"
	"fmt"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
)

type MemorizedRepository interface {
	GetByID(ctx context.Context, id string) (*models.Memorized, error)
	GetByGroupID(ctx context.Context, groupID string) ([]models.Memorized, error)
	Create(ctx context.Context, memorized *models.Memorized) error
	Update(ctx context.Context, memorized *models.Memorized) error
	Delete(ctx context.Context, id string) error
	CreateSplit(ctx context.Context, split *models.MemorizedSplit) error
	DeleteSplits(ctx context.Context, memorizedID string) error
	WithTx(tx database.Querier) MemorizedRepository
}

type memorizedRepository struct {
	db *database.DB
	tx database.Querier
}

func NewMemorizedRepository(db *database.DB) MemorizedRepository {
	return &memorizedRepository{db: db}
}

func (r *memorizedRepository) WithTx(tx database.Querier) MemorizedRepository {
	return &memorizedRepository{db: r.db, tx: tx}
}

func (r *memorizedRepository) getQuerier() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Pool
}

const memorizedColumns = `id, group_id, description, category_id, paid_by_member_id,
	          total_amount, shared_amount, proportional_amount, split_by_percentage,
	          created_at, updated_at`

func (r *memorizedRepository) GetByID(ctx context.Context, id string) (*models.Memorized, error) {
	var memorized models.Memorized
	query := `SELECT ` + memorizedColumns + ` FROM memorized WHERE id = $1`

	err := r.getQuerier().QueryRow(ctx, query, id).Scan(
		&memorized.ID, &memorized.GroupID, &memorized.Description, &memorized.CategoryID,
		&memorized.PaidByMemberID, &memorized.TotalAmount, &memorized.SharedAmount,
		&memorized.ProportionalAmount, &memorized.SplitByPercentage,
		&memorized.CreatedAt, &memorized.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting memorized by id: %w", err)
	}

	splits, err := r.getSplits(ctx, id)
	if err != nil {
		return nil, err
	}
	memorized.Splits = splits

	return &memorized, nil
}

func (r *memorizedRepository) GetByGroupID(ctx context.Context, groupID string) ([]models.Memorized, error) {
	query := `SELECT ` + memorizedColumns + ` FROM memorized WHERE group_id = $1
	          ORDER BY description`

	rows, err := r.getQuerier().Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("getting memorized by group id: %w", err)
	}
	defer rows.Close()

	var records []models.Memorized
	for rows.Next() {
		var memorized models.Memorized
		if err := rows.Scan(
			&memorized.ID, &memorized.GroupID, &memorized.Description, &memorized.CategoryID,
			&memorized.PaidByMemberID, &memorized.TotalAmount, &memorized.SharedAmount,
			&memorized.ProportionalAmount, &memorized.SplitByPercentage,
			&memorized.CreatedAt, &memorized.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning memorized: %w", err)
		}
		records = append(records, memorized)
	}

	for i := range records {
		splits, err := r.getSplits(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Splits = splits
	}

	return records, nil
}

func (r *memorizedRepository) getSplits(ctx context.Context, memorizedID string) ([]models.MemorizedSplit, error) {
	query := `SELECT id, memorized_id, owed_by_member_id, assigned_amount, percentage, allocated_amount
	          FROM memorized_splits WHERE memorized_id = $1 ORDER BY position`

	rows, err := r.getQuerier().Query(ctx, query, memorizedID)
	if err != nil {
		return nil, fmt.Errorf("getting memorized splits: %w", err)
	}
	defer rows.Close()

	var splits []models.MemorizedSplit
	for rows.Next() {
		var split models.MemorizedSplit
		if err := rows.Scan(
			&split.ID, &split.MemorizedID, &split.OwedByMemberID,
			&split.AssignedAmount, &split.Percentage, &split.AllocatedAmount,
		); err != nil {
			return nil, fmt.Errorf("scanning memorized split: %w", err)
		}
		splits = append(splits, split)
	}
	return splits, nil
}

func (r *memorizedRepository) Create(ctx context.Context, memorized *models.Memorized) error {
	query := `INSERT INTO memorized (id, group_id, description, category_id, paid_by_member_id,
	          total_amount, shared_amount, proportional_amount, split_by_percentage,
	          created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err := r.getQuerier().Exec(ctx, query,
		memorized.ID, memorized.GroupID, memorized.Description, memorized.CategoryID,
		memorized.PaidByMemberID, memorized.TotalAmount, memorized.SharedAmount,
		memorized.ProportionalAmount, memorized.SplitByPercentage,
	)
	if err != nil {
		return fmt.Errorf("creating memorized: %w", err)
	}
	return nil
}

func (r *memorizedRepository) Update(ctx context.Context, memorized *models.Memorized) error {
	query := `UPDATE memorized SET description = $1, category_id = $2, paid_by_member_id = $3,
	          total_amount = $4, shared_amount = $5, proportional_amount = $6,
	          split_by_percentage = $7, updated_at = NOW()
	          WHERE id = $8`

	_, err := r.getQuerier().Exec(ctx, query,
		memorized.Description, memorized.CategoryID, memorized.PaidByMemberID,
		memorized.TotalAmount, memorized.SharedAmount, memorized.ProportionalAmount,
		memorized.SplitByPercentage, memorized.ID,
	)
	if err != nil {
		return fmt.Errorf("updating memorized: %w", err)
	}
	return nil
}

func (r *memorizedRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM memorized WHERE id = $1`

	_, err := r.getQuerier().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting memorized: %w", err)
	}
	return nil
}

func (r *memorizedRepository) CreateSplit(ctx context.Context, split *models.MemorizedSplit) error {
	query := `INSERT INTO memorized_splits (id, memorized_id, position, owed_by_member_id,
	          assigned_amount, percentage, allocated_amount)
	          VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM memorized_splits WHERE memorized_id = $2), $3, $4, $5, $6)`

	_, err := r.getQuerier().Exec(ctx, query,
		split.ID, split.MemorizedID, split.OwedByMemberID,
		split.AssignedAmount, split.Percentage, split.AllocatedAmount,
	)
	if err != nil {
		return fmt.Errorf("creating memorized split: %w", err)
	}
	return nil
}

func (r *memorizedRepository) DeleteSplits(ctx context.Context, memorizedID string) error {
	query := `DELETE FROM memorized_splits WHERE memorized_id = $1`

	_, err := r.getQuerier().Exec(ctx, query, memorizedID)
	if err != nil {
		return fmt.Errorf("deleting memorized splits: %w", err)
	}
	return nil
}
