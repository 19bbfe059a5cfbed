package services

import (
	"context"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberService manages group membership. Members are never hard-deleted:
// their splits and settlement history must stay attributable, so a member
// who leaves is deactivated instead, and only once they owe nothing.
type MemberService interface {
	GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Member, error)
	Create(ctx context.Context, userID string, member *models.Member) (*models.Member, error)
	Update(ctx context.Context, memberID, userID string, member *models.Member) (*models.Member, error)
	Deactivate(ctx context.Context, memberID, userID string) error
}

type memberService struct {
	memberRepo  repository.MemberRepository
	groupRepo   repository.GroupRepository
	expenseRepo repository.ExpenseRepository
}

func NewMemberService(memberRepo repository.MemberRepository, groupRepo repository.GroupRepository, expenseRepo repository.ExpenseRepository) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
	}
}

func (s *memberService) GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Member, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get members", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting members", err)
	}

	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

func (s *memberService) Create(ctx context.Context, userID string, member *models.Member) (*models.Member, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, member.GroupID, userID); err != nil {
		return nil, err
	}

	if member.DisplayName == "" {
		return nil, apperrors.MissingRequiredField("display_name")
	}

	member.ID = uuid.New().String()
	member.Active = true

	if err := s.memberRepo.Create(ctx, member); err != nil {
		zap.L().Error("Failed to create member", zap.String("group_id", member.GroupID), zap.Error(err))
		return nil, apperrors.DatabaseError("creating member", err)
	}

	zap.L().Info("Member created", zap.String("member_id", member.ID), zap.String("group_id", member.GroupID))
	return s.memberRepo.GetByID(ctx, member.ID)
}

func (s *memberService) Update(ctx context.Context, memberID, userID string, member *models.Member) (*models.Member, error) {
	existing, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.MemberNotFound()
		}
		return nil, apperrors.DatabaseError("getting member", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, existing.GroupID, userID); err != nil {
		return nil, err
	}

	member.ID = memberID
	member.GroupID = existing.GroupID
	if member.DisplayName == "" {
		return nil, apperrors.MissingRequiredField("display_name")
	}

	if existing.Active && !member.Active {
		if err := s.ensureNoUnpaidSplits(ctx, existing); err != nil {
			return nil, err
		}
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		zap.L().Error("Failed to update member", zap.String("member_id", memberID), zap.Error(err))
		return nil, apperrors.DatabaseError("updating member", err)
	}

	return s.memberRepo.GetByID(ctx, memberID)
}

func (s *memberService) Deactivate(ctx context.Context, memberID, userID string) error {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return apperrors.MemberNotFound()
		}
		return apperrors.DatabaseError("getting member", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, member.GroupID, userID); err != nil {
		return err
	}

	if err := s.ensureNoUnpaidSplits(ctx, member); err != nil {
		return err
	}

	member.Active = false
	if err := s.memberRepo.Update(ctx, member); err != nil {
		zap.L().Error("Failed to deactivate member", zap.String("member_id", memberID), zap.Error(err))
		return apperrors.DatabaseError("deactivating member", err)
	}

	zap.L().Info("Member deactivated", zap.String("member_id", memberID), zap.String("group_id", member.GroupID))
	return nil
}

func (s *memberService) ensureNoUnpaidSplits(ctx context.Context, member *models.Member) error {
	count, err := s.expenseRepo.CountUnpaidSplitsForMember(ctx, member.GroupID, member.ID)
	if err != nil {
		return apperrors.DatabaseError("counting unpaid splits", err)
	}
	if count > 0 {
		return apperrors.MemberHasUnpaidSplits(member.DisplayName)
	}
	return nil
}
