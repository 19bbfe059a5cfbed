package repository

import (
	"context"
	"fmt"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
)

type ExpenseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	GetByGroupID(ctx context.Context, groupID string) ([]models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id string) error
	GetSplits(ctx context.Context, expenseID string) ([]models.Split, error)
	GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]models.Split, error)
	CreateSplit(ctx context.Context, split *models.Split) error
	DeleteSplits(ctx context.Context, expenseID string) error
	GetUnpaidSplits(ctx context.Context, groupID string) ([]models.Split, error)
	MarkSplitsPaid(ctx context.Context, splitIDs []string) (int64, error)
	CountUnpaidSplitsForMember(ctx context.Context, groupID, memberID string) (int, error)
	CountUnpaidSplitsForCategory(ctx context.Context, groupID, categoryID string) (int, error)
	WithTx(tx database.Querier) ExpenseRepository
}

type expenseRepository struct {
	db *database.DB
	tx database.Querier
}

func NewExpenseRepository(db *database.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) WithTx(tx database.Querier) ExpenseRepository {
	return &expenseRepository{db: r.db, tx: tx}
}

func (r *expenseRepository) getQuerier() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Pool
}

const expenseColumns = `id, group_id, description, category_id, paid_by_member_id,
	          total_amount, shared_amount, proportional_amount, split_by_percentage,
	          date, paid, created_at, updated_at`

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	var expense models.Expense
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	err := r.getQuerier().QueryRow(ctx, query, id).Scan(
		&expense.ID, &expense.GroupID, &expense.Description, &expense.CategoryID,
		&expense.PaidByMemberID, &expense.TotalAmount, &expense.SharedAmount,
		&expense.ProportionalAmount, &expense.SplitByPercentage,
		&expense.Date, &expense.Paid, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting expense by id: %w", err)
	}

	splits, err := r.GetSplits(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting expense splits: %w", err)
	}
	expense.Splits = splits

	return &expense, nil
}

func (r *expenseRepository) GetByGroupID(ctx context.Context, groupID string) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE group_id = $1
	          ORDER BY date DESC, created_at DESC`

	rows, err := r.getQuerier().Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("getting expenses by group id: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	expenseIDs := make([]string, 0)
	for rows.Next() {
		var expense models.Expense
		if err := rows.Scan(
			&expense.ID, &expense.GroupID, &expense.Description, &expense.CategoryID,
			&expense.PaidByMemberID, &expense.TotalAmount, &expense.SharedAmount,
			&expense.ProportionalAmount, &expense.SplitByPercentage,
			&expense.Date, &expense.Paid, &expense.CreatedAt, &expense.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, expense)
		expenseIDs = append(expenseIDs, expense.ID)
	}

	if len(expenseIDs) > 0 {
		allSplits, err := r.GetSplitsByExpenseIDs(ctx, expenseIDs)
		if err != nil {
			return nil, fmt.Errorf("batch getting splits: %w", err)
		}

		for i := range expenses {
			if splits := allSplits[expenses[i].ID]; splits != nil {
				expenses[i].Splits = splits
			} else {
				expenses[i].Splits = []models.Split{}
			}
		}
	}

	return expenses, nil
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	query := `INSERT INTO expenses (id, group_id, description, category_id, paid_by_member_id,
	          total_amount, shared_amount, proportional_amount, split_by_percentage,
	          date, paid, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err := r.getQuerier().Exec(ctx, query,
		expense.ID, expense.GroupID, expense.Description, expense.CategoryID,
		expense.PaidByMemberID, expense.TotalAmount, expense.SharedAmount,
		expense.ProportionalAmount, expense.SplitByPercentage, expense.Date, expense.Paid,
	)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	query := `UPDATE expenses SET description = $1, category_id = $2, paid_by_member_id = $3,
	          total_amount = $4, shared_amount = $5, proportional_amount = $6,
	          split_by_percentage = $7, date = $8, paid = $9, updated_at = NOW()
	          WHERE id = $10`

	_, err := r.getQuerier().Exec(ctx, query,
		expense.Description, expense.CategoryID, expense.PaidByMemberID,
		expense.TotalAmount, expense.SharedAmount, expense.ProportionalAmount,
		expense.SplitByPercentage, expense.Date, expense.Paid, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	// splits cascade via the expense_id foreign key
	query := `DELETE FROM expenses WHERE id = $1`

	_, err := r.getQuerier().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

const splitColumns = `id, expense_id, group_id, owed_by_member_id, paid_by_member_id,
	          category_id, assigned_amount, percentage, allocated_amount, paid, date,
	          created_at, updated_at`

func scanSplit(row interface {
	Scan(dest ...interface{}) error
}) (models.Split, error) {
	var split models.Split
	err := row.Scan(
		&split.ID, &split.ExpenseID, &split.GroupID, &split.OwedByMemberID,
		&split.PaidByMemberID, &split.CategoryID, &split.AssignedAmount,
		&split.Percentage, &split.AllocatedAmount, &split.Paid, &split.Date,
		&split.CreatedAt, &split.UpdatedAt,
	)
	return split, err
}

func (r *expenseRepository) GetSplits(ctx context.Context, expenseID string) ([]models.Split, error) {
	query := `SELECT ` + splitColumns + ` FROM splits WHERE expense_id = $1 ORDER BY created_at`

	rows, err := r.getQuerier().Query(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("getting splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		splits = append(splits, split)
	}
	return splits, nil
}

func (r *expenseRepository) GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]models.Split, error) {
	if len(expenseIDs) == 0 {
		return make(map[string][]models.Split), nil
	}

	query := `SELECT ` + splitColumns + ` FROM splits WHERE expense_id = ANY($1) ORDER BY created_at`

	rows, err := r.getQuerier().Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("batch getting splits: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.Split)
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		result[split.ExpenseID] = append(result[split.ExpenseID], split)
	}
	return result, nil
}

func (r *expenseRepository) CreateSplit(ctx context.Context, split *models.Split) error {
	query := `INSERT INTO splits (id, expense_id, group_id, owed_by_member_id, paid_by_member_id,
	          category_id, assigned_amount, percentage, allocated_amount, paid, date,
	          created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err := r.getQuerier().Exec(ctx, query,
		split.ID, split.ExpenseID, split.GroupID, split.OwedByMemberID,
		split.PaidByMemberID, split.CategoryID, split.AssignedAmount,
		split.Percentage, split.AllocatedAmount, split.Paid, split.Date,
	)
	if err != nil {
		return fmt.Errorf("creating split: %w", err)
	}
	return nil
}

func (r *expenseRepository) DeleteSplits(ctx context.Context, expenseID string) error {
	query := `DELETE FROM splits WHERE expense_id = $1`

	_, err := r.getQuerier().Exec(ctx, query, expenseID)
	if err != nil {
		return fmt.Errorf("deleting splits: %w", err)
	}
	return nil
}

func (r *expenseRepository) GetUnpaidSplits(ctx context.Context, groupID string) ([]models.Split, error) {
	query := `SELECT ` + splitColumns + ` FROM splits
	          WHERE group_id = $1 AND paid = false
	          ORDER BY date, created_at`

	rows, err := r.getQuerier().Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("getting unpaid splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning unpaid split: %w", err)
		}
		splits = append(splits, split)
	}
	return splits, nil
}

// MarkSplitsPaid flips paid on the given splits, touching only rows that
// are still unpaid. Callers compare the affected count against the batch
// size to detect a settlement race.
func (r *expenseRepository) MarkSplitsPaid(ctx context.Context, splitIDs []string) (int64, error) {
	query := `UPDATE splits SET paid = true, updated_at = NOW()
	          WHERE id = ANY($1) AND paid = false`

	tag, err := r.getQuerier().Exec(ctx, query, splitIDs)
	if err != nil {
		return 0, fmt.Errorf("marking splits paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *expenseRepository) CountUnpaidSplitsForMember(ctx context.Context, groupID, memberID string) (int, error) {
	query := `SELECT COUNT(*) FROM splits
	          WHERE group_id = $1 AND paid = false
	          AND (owed_by_member_id = $2 OR paid_by_member_id = $2)`

	var count int
	err := r.getQuerier().QueryRow(ctx, query, groupID, memberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unpaid splits for member: %w", err)
	}
	return count, nil
}

func (r *expenseRepository) CountUnpaidSplitsForCategory(ctx context.Context, groupID, categoryID string) (int, error) {
	query := `SELECT COUNT(*) FROM splits
	          WHERE group_id = $1 AND paid = false AND category_id = $2`

	var count int
	err := r.getQuerier().QueryRow(ctx, query, groupID, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unpaid splits for category: %w", err)
	}
	return count, nil
}
