package services

import (
	"context"

	"pipsplit-backend/currency"
	"pipsplit-backend/database"
	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GroupService interface {
	GetByID(ctx context.Context, groupID, userID string) (*models.Group, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Group, error)
	Create(ctx context.Context, userID, displayName string, group *models.Group) (*models.Group, error)
	Update(ctx context.Context, groupID, userID string, group *models.Group) (*models.Group, error)
	Delete(ctx context.Context, groupID, userID string) error
}

type groupService struct {
	groupRepo    repository.GroupRepository
	memberRepo   repository.MemberRepository
	categoryRepo repository.CategoryRepository
	db           database.TxRunner
}

func NewGroupService(groupRepo repository.GroupRepository, memberRepo repository.MemberRepository, categoryRepo repository.CategoryRepository, db database.TxRunner) GroupService {
	return &groupService{
		groupRepo:    groupRepo,
		memberRepo:   memberRepo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

func (s *groupService) GetByID(ctx context.Context, groupID, userID string) (*models.Group, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, apperrors.DatabaseError("getting group", err)
	}

	members, err := s.memberRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting members", err)
	}
	group.Members = members

	categories, err := s.categoryRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting categories", err)
	}
	group.Categories = categories

	return group, nil
}

func (s *groupService) GetByUserID(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.groupRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("Failed to get groups for user", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting groups", err)
	}

	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

// Create makes the creating user the group's first member and its admin.
func (s *groupService) Create(ctx context.Context, userID, displayName string, group *models.Group) (*models.Group, error) {
	if err := validateGroupFields(group); err != nil {
		return nil, err
	}
	if displayName == "" {
		return nil, apperrors.MissingRequiredField("display_name")
	}

	group.ID = uuid.New().String()
	group.Active = true

	err := s.db.WithTx(ctx, func(q database.Querier) error {
		txGroupRepo := s.groupRepo.WithTx(q)
		txMemberRepo := s.memberRepo.WithTx(q)

		if err := txGroupRepo.Create(ctx, group); err != nil {
			return apperrors.DatabaseError("creating group", err)
		}

		admin := models.Member{
			ID:          uuid.New().String(),
			GroupID:     group.ID,
			UserID:      &userID,
			DisplayName: displayName,
			Active:      true,
			GroupAdmin:  true,
		}
		if err := txMemberRepo.Create(ctx, &admin); err != nil {
			return apperrors.DatabaseError("creating group admin member", err)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("Failed to create group transactionally", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("Group created", zap.String("group_id", group.ID), zap.String("name", group.Name))
	return s.GetByID(ctx, group.ID, userID)
}

func (s *groupService) Update(ctx context.Context, groupID, userID string, group *models.Group) (*models.Group, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	existing, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, apperrors.DatabaseError("getting group", err)
	}

	group.ID = groupID
	group.Active = existing.Active
	if group.CurrencyCode == "" {
		group.CurrencyCode = existing.CurrencyCode
	}

	if err := validateGroupFields(group); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		zap.L().Error("Failed to update group", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("updating group", err)
	}

	return s.GetByID(ctx, groupID, userID)
}

func (s *groupService) Delete(ctx context.Context, groupID, userID string) error {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return err
	}

	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		zap.L().Error("Failed to delete group", zap.String("group_id", groupID), zap.Error(err))
		return apperrors.DatabaseError("deleting group", err)
	}

	zap.L().Info("Group deactivated", zap.String("group_id", groupID))
	return nil
}

func validateGroupFields(group *models.Group) error {
	if len(group.Name) < MinGroupNameLength || len(group.Name) > MaxGroupNameLength {
		return apperrors.InvalidFieldFormat("name", "between 2 and 50 characters")
	}
	if group.CurrencyCode != "" {
		if _, ok := currency.Lookup(group.CurrencyCode); !ok {
			return apperrors.UnsupportedCurrency(group.CurrencyCode)
		}
	}
	return nil
}
