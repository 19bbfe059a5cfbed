package repository

import (
	"context"
	"fmt"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
)

type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByGroupID(ctx context.Context, groupID string) ([]models.Member, error)
	GetActiveByGroupID(ctx context.Context, groupID string) ([]models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	WithTx(tx database.Querier) MemberRepository
}

type memberRepository struct {
	db *database.DB
	tx database.Querier
}

func NewMemberRepository(db *database.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) WithTx(tx database.Querier) MemberRepository {
	return &memberRepository{db: r.db, tx: tx}
}

func (r *memberRepository) getQuerier() database.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Pool
}

const memberColumns = `id, group_id, user_id, display_name, email, active, group_admin, created_at, updated_at`

func (r *memberRepository) scanMember(row interface {
	Scan(dest ...interface{}) error
}) (*models.Member, error) {
	var member models.Member
	err := row.Scan(
		&member.ID, &member.GroupID, &member.UserID, &member.DisplayName,
		&member.Email, &member.Active, &member.GroupAdmin,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := r.scanMember(r.getQuerier().QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting member by id: %w", err)
	}
	return member, nil
}

func (r *memberRepository) GetByGroupID(ctx context.Context, groupID string) ([]models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE group_id = $1 ORDER BY display_name`
	return r.queryMembers(ctx, query, groupID)
}

func (r *memberRepository) GetActiveByGroupID(ctx context.Context, groupID string) ([]models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE group_id = $1 AND active = true ORDER BY display_name`
	return r.queryMembers(ctx, query, groupID)
}

func (r *memberRepository) queryMembers(ctx context.Context, query string, args ...interface{}) ([]models.Member, error) {
	rows, err := r.getQuerier().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("getting members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		member, err := r.scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, *member)
	}
	return members, nil
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	query := `INSERT INTO members (id, group_id, user_id, display_name, email, active, group_admin, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := r.getQuerier().Exec(ctx, query,
		member.ID, member.GroupID, member.UserID, member.DisplayName,
		member.Email, member.Active, member.GroupAdmin,
	)
	if err != nil {
		return fmt.Errorf("creating member: %w", err)
	}
	return nil
}

func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	query := `UPDATE members SET display_name = $1, email = $2, active = $3, group_admin = $4, updated_at = NOW()
	          WHERE id = $5`

	_, err := r.getQuerier().Exec(ctx, query,
		member.DisplayName, member.Email, member.Active, member.GroupAdmin, member.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}
	return nil
}
