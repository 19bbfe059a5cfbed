package repository

import (
	"context"
	"fmt"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
)

type HistoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.History, error)
	GetByGroupID(ctx context.Context, groupID string) ([]models.History, error)
	Create(ctx context.Context, history *models.History) error
	Delete(ctx context.Context, id string) error
	WithTx(tx database.Querier) HistoryRepository
}

type historyRepository struct {
	db *database.DB
	tx database.Querier
}

func NewHistoryRepository(db *database.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) WithTx(tx database.Querier) HistoryRepository {
	return &historyRepository{db: r.db, tx: tx}
}

func (r *historyRepository) getQuerier() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Pool
}

func (r *historyRepository) GetByID(ctx context.Context, id string) (*models.History, error) {
	var history models.History
	query := `SELECT id, group_id, paid_by_member_id, paid_to_member_id, date, total_paid, created_at
	          FROM history WHERE id = $1`

	err := r.getQuerier().QueryRow(ctx, query, id).Scan(
		&history.ID, &history.GroupID, &history.PaidByMemberID, &history.PaidToMemberID,
		&history.Date, &history.TotalPaid, &history.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting history by id: %w", err)
	}

	lineItems, err := r.getLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	history.LineItems = lineItems

	return &history, nil
}

func (r *historyRepository) GetByGroupID(ctx context.Context, groupID string) ([]models.History, error) {
	query := `SELECT id, group_id, paid_by_member_id, paid_to_member_id, date, total_paid, created_at
	          FROM history WHERE group_id = $1
	          ORDER BY date DESC, created_at DESC`

	rows, err := r.getQuerier().Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("getting history by group id: %w", err)
	}
	defer rows.Close()

	var records []models.History
	for rows.Next() {
		var history models.History
		if err := rows.Scan(
			&history.ID, &history.GroupID, &history.PaidByMemberID, &history.PaidToMemberID,
			&history.Date, &history.TotalPaid, &history.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		records = append(records, history)
	}

	for i := range records {
		lineItems, err := r.getLineItems(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].LineItems = lineItems
	}

	return records, nil
}

func (r *historyRepository) getLineItems(ctx context.Context, historyID string) ([]models.HistoryLineItem, error) {
	query := `SELECT category, amount FROM history_line_items
	          WHERE history_id = $1 ORDER BY position`

	rows, err := r.getQuerier().Query(ctx, query, historyID)
	if err != nil {
		return nil, fmt.Errorf("getting history line items: %w", err)
	}
	defer rows.Close()

	var items []models.HistoryLineItem
	for rows.Next() {
		var item models.HistoryLineItem
		if err := rows.Scan(&item.Category, &item.Amount); err != nil {
			return nil, fmt.Errorf("scanning history line item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Create writes the settlement record and its ordered line items. It is
// always called inside the settlement transaction.
func (r *historyRepository) Create(ctx context.Context, history *models.History) error {
	query := `INSERT INTO history (id, group_id, paid_by_member_id, paid_to_member_id, date, total_paid, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := r.getQuerier().Exec(ctx, query,
		history.ID, history.GroupID, history.PaidByMemberID, history.PaidToMemberID,
		history.Date, history.TotalPaid,
	)
	if err != nil {
		return fmt.Errorf("creating history: %w", err)
	}

	itemQuery := `INSERT INTO history_line_items (history_id, position, category, amount)
	              VALUES ($1, $2, $3, $4)`
	for i, item := range history.LineItems {
		if _, err := r.getQuerier().Exec(ctx, itemQuery, history.ID, i, item.Category, item.Amount); err != nil {
			return fmt.Errorf("creating history line item: %w", err)
		}
	}
	return nil
}

func (r *historyRepository) Delete(ctx context.Context, id string) error {
	// line items cascade via the history_id foreign key
	query := `DELETE FROM history WHERE id = $1`

	_, err := r.getQuerier().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting history: %w", err)
	}
	return nil
}
