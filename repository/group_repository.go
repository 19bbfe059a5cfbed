package repository

import (
	"context"
	"fmt"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
)

type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	WithTx(tx database.Querier) GroupRepository
}

type groupRepository struct {
	db *database.DB
	tx database.Querier
}

func NewGroupRepository(db *database.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) WithTx(tx database.Querier) GroupRepository {
	return &groupRepository{db: r.db, tx: tx}
}

func (r *groupRepository) getQuerier() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Pool
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	query := `SELECT id, name, currency_code, active, created_at, updated_at
	          FROM groups WHERE id = $1`

	err := r.getQuerier().QueryRow(ctx, query, id).Scan(
		&group.ID, &group.Name, &group.CurrencyCode, &group.Active,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting group by id: %w", err)
	}

	return &group, nil
}

func (r *groupRepository) GetByUserID(ctx context.Context, userID string) ([]models.Group, error) {
	query := `SELECT g.id, g.name, g.currency_code, g.active, g.created_at, g.updated_at
	          FROM groups g
	          INNER JOIN members m ON g.id = m.group_id
	          WHERE m.user_id = $1 AND m.active = true
	          ORDER BY g.name`

	rows, err := r.getQuerier().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("getting groups by user id: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(
			&group.ID, &group.Name, &group.CurrencyCode, &group.Active,
			&group.CreatedAt, &group.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `INSERT INTO groups (id, name, currency_code, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW())`

	_, err := r.getQuerier().Exec(ctx, query, group.ID, group.Name, group.CurrencyCode, group.Active)
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}
	return nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	query := `UPDATE groups SET name = $1, currency_code = $2, active = $3, updated_at = NOW()
	          WHERE id = $4`

	_, err := r.getQuerier().Exec(ctx, query, group.Name, group.CurrencyCode, group.Active, group.ID)
	if err != nil {
		return fmt.Errorf("updating group: %w", err)
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE groups SET active = false, updated_at = NOW() WHERE id = $1`

	_, err := r.getQuerier().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	return nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT EXISTS(
	          SELECT 1 FROM members WHERE group_id = $1 AND user_id = $2 AND active = true)`

	var isMember bool
	err := r.getQuerier().QueryRow(ctx, query, groupID, userID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("checking group membership: %w", err)
	}
	return isMember, nil
}
