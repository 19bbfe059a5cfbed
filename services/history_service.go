package services

import (
	"context"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"

	"go.uber.org/zap"
)

// HistoryService reads and prunes settlement records. Records are never
// edited: a wrong settlement is corrected by deleting it and settling
// again, which cannot resurrect the already-paid splits.
type HistoryService interface {
	GetByID(ctx context.Context, historyID, userID string) (*models.History, error)
	GetByGroupID(ctx context.Context, groupID, userID string) ([]models.History, error)
	Delete(ctx context.Context, historyID, userID string) error
}

type historyService struct {
	historyRepo repository.HistoryRepository
	groupRepo   repository.GroupRepository
}

func NewHistoryService(historyRepo repository.HistoryRepository, groupRepo repository.GroupRepository) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		groupRepo:   groupRepo,
	}
}

func (s *historyService) GetByID(ctx context.Context, historyID, userID string) (*models.History, error) {
	history, err := s.historyRepo.GetByID(ctx, historyID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.HistoryNotFound()
		}
		return nil, apperrors.DatabaseError("getting history record", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, history.GroupID, userID); err != nil {
		return nil, err
	}

	return history, nil
}

func (s *historyService) GetByGroupID(ctx context.Context, groupID, userID string) ([]models.History, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get history records", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting history records", err)
	}

	if records == nil {
		records = []models.History{}
	}
	return records, nil
}

func (s *historyService) Delete(ctx context.Context, historyID, userID string) error {
	history, err := s.historyRepo.GetByID(ctx, historyID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return apperrors.HistoryNotFound()
		}
		return apperrors.DatabaseError("getting history record", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, history.GroupID, userID); err != nil {
		return err
	}

	if err := s.historyRepo.Delete(ctx, historyID); err != nil {
		zap.L().Error("Failed to delete history record", zap.String("history_id", historyID), zap.Error(err))
		return apperrors.DatabaseError("deleting history record", err)
	}

	zap.L().Info("History record deleted", zap.String("history_id", historyID), zap.String("group_id", history.GroupID))
	return nil
}
