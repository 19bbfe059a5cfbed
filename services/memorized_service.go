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

// MemorizedService manages reusable expense templates. Templates run
// through the same allocation engine as expenses so a template is always
// ready to be instantiated as-is.
type MemorizedService interface {
	GetByID(ctx context.Context, memorizedID, userID string) (*models.Memorized, error)
	GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Memorized, error)
	Create(ctx context.Context, userID string, memorized *models.Memorized, splits []SplitInput) (*models.Memorized, error)
	Update(ctx context.Context, memorizedID, userID string, memorized *models.Memorized, splits []SplitInput) (*models.Memorized, error)
	Delete(ctx context.Context, memorizedID, userID string) error
}

type memorizedService struct {
	memorizedRepo repository.MemorizedRepository
	groupRepo     repository.GroupRepository
	allocation    AllocationService
	db            database.TxRunner
}

func NewMemorizedService(memorizedRepo repository.MemorizedRepository, groupRepo repository.GroupRepository, allocation AllocationService, db database.TxRunner) MemorizedService {
	return &memorizedService{
		memorizedRepo: memorizedRepo,
		groupRepo:     groupRepo,
		allocation:    allocation,
		db:            db,
	}
}

func (s *memorizedService) GetByID(ctx context.Context, memorizedID, userID string) (*models.Memorized, error) {
	memorized, err := s.memorizedRepo.GetByID(ctx, memorizedID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.MemorizedNotFound()
		}
		return nil, apperrors.DatabaseError("getting memorized expense", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, memorized.GroupID, userID); err != nil {
		return nil, err
	}

	return memorized, nil
}

func (s *memorizedService) GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Memorized, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	records, err := s.memorizedRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get memorized expenses", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting memorized expenses", err)
	}

	if records == nil {
		records = []models.Memorized{}
	}
	return records, nil
}

func (s *memorizedService) Create(ctx context.Context, userID string, memorized *models.Memorized, splits []SplitInput) (*models.Memorized, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, memorized.GroupID, userID); err != nil {
		return nil, err
	}

	if err := validateMemorizedFields(memorized); err != nil {
		return nil, err
	}

	result, err := s.allocate(ctx, memorized, splits)
	if err != nil {
		return nil, err
	}

	memorized.ID = uuid.New().String()

	err = s.db.WithTx(ctx, func(q database.Querier) error {
		txRepo := s.memorizedRepo.WithTx(q)
		if err := txRepo.Create(ctx, memorized); err != nil {
			return apperrors.DatabaseError("creating memorized expense", err)
		}
		return createMemorizedSplits(ctx, txRepo, memorized.ID, result.Splits)
	})
	if err != nil {
		zap.L().Error("Failed to create memorized expense transactionally", zap.String("group_id", memorized.GroupID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("Memorized expense created", zap.String("memorized_id", memorized.ID), zap.String("group_id", memorized.GroupID))
	return s.memorizedRepo.GetByID(ctx, memorized.ID)
}

func (s *memorizedService) Update(ctx context.Context, memorizedID, userID string, memorized *models.Memorized, splits []SplitInput) (*models.Memorized, error) {
	existing, err := s.memorizedRepo.GetByID(ctx, memorizedID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.MemorizedNotFound()
		}
		return nil, apperrors.DatabaseError("getting memorized expense", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, existing.GroupID, userID); err != nil {
		return nil, err
	}

	memorized.ID = memorizedID
	memorized.GroupID = existing.GroupID

	if err := validateMemorizedFields(memorized); err != nil {
		return nil, err
	}

	result, err := s.allocate(ctx, memorized, splits)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(q database.Querier) error {
		txRepo := s.memorizedRepo.WithTx(q)
		if err := txRepo.Update(ctx, memorized); err != nil {
			return apperrors.DatabaseError("updating memorized expense", err)
		}
		if err := txRepo.DeleteSplits(ctx, memorizedID); err != nil {
			return apperrors.DatabaseError("deleting existing memorized splits", err)
		}
		return createMemorizedSplits(ctx, txRepo, memorizedID, result.Splits)
	})
	if err != nil {
		zap.L().Error("Failed to update memorized expense transactionally", zap.String("memorized_id", memorizedID), zap.Error(err))
		return nil, err
	}

	return s.memorizedRepo.GetByID(ctx, memorizedID)
}

func (s *memorizedService) Delete(ctx context.Context, memorizedID, userID string) error {
	memorized, err := s.memorizedRepo.GetByID(ctx, memorizedID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return apperrors.MemorizedNotFound()
		}
		return apperrors.DatabaseError("getting memorized expense", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, memorized.GroupID, userID); err != nil {
		return err
	}

	if err := s.memorizedRepo.Delete(ctx, memorizedID); err != nil {
		zap.L().Error("Failed to delete memorized expense", zap.String("memorized_id", memorizedID), zap.Error(err))
		return apperrors.DatabaseError("deleting memorized expense", err)
	}

	zap.L().Info("Memorized expense deleted", zap.String("memorized_id", memorizedID))
	return nil
}

func (s *memorizedService) allocate(ctx context.Context, memorized *models.Memorized, splits []SplitInput) (*AllocationResult, error) {
	group, err := s.groupRepo.GetByID(ctx, memorized.GroupID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, apperrors.DatabaseError("getting group", err)
	}
	cur := currency.LookupOrDefault(group.CurrencyCode)

	result, err := s.allocation.Allocate(AllocationInput{
		TotalAmount:        memorized.TotalAmount,
		SharedAmount:       memorized.SharedAmount,
		ProportionalAmount: memorized.ProportionalAmount,
		SplitByPercentage:  memorized.SplitByPercentage,
		Splits:             splits,
	}, cur)
	if err != nil {
		return nil, err
	}

	if len(result.Splits) == 0 {
		return nil, apperrors.InvalidRequest("at least one split is required")
	}

	if !result.FullyAllocated {
		percentageSum := 0.0
		for _, split := range result.Splits {
			percentageSum += split.Percentage
		}
		return nil, apperrors.InvalidPercentages(roundPercentage(percentageSum))
	}

	for _, split := range result.Splits {
		if split.OwedByMemberID == "" {
			return nil, apperrors.MissingRequiredField("owed_by_member_id")
		}
	}

	memorized.SharedAmount = result.AdjustedSharedAmount
	return result, nil
}

func createMemorizedSplits(ctx context.Context, txRepo repository.MemorizedRepository, memorizedID string, results []SplitResult) error {
	for _, r := range results {
		split := models.MemorizedSplit{
			ID:              uuid.New().String(),
			MemorizedID:     memorizedID,
			OwedByMemberID:  r.OwedByMemberID,
			AssignedAmount:  r.AssignedAmount,
			Percentage:      r.Percentage,
			AllocatedAmount: r.AllocatedAmount,
		}
		if err := txRepo.CreateSplit(ctx, &split); err != nil {
			return apperrors.DatabaseError("creating memorized split", err)
		}
	}
	return nil
}

func validateMemorizedFields(memorized *models.Memorized) error {
	if len(memorized.Description) < MinDescriptionLength || len(memorized.Description) > MaxDescriptionLength {
		return apperrors.InvalidFieldFormat("description", "between 3 and 100 characters")
	}
	if memorized.TotalAmount <= 0 {
		return apperrors.InvalidAmount("total_amount must be positive")
	}
	if memorized.PaidByMemberID == "" {
		return apperrors.MissingRequiredField("paid_by_member_id")
	}
	if memorized.CategoryID == "" {
		return apperrors.MissingRequiredField("category_id")
	}
	return nil
}
