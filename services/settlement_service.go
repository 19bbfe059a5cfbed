package services

import (
	"context"
	"time"

	"pipsplit-backend/currency"
	"pipsplit-backend/database"
	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementService marks the outstanding splits between two members paid
// and records what was settled. The mark and the record are written in one
// serializable transaction: either both land or neither does.
type SettlementService interface {
	Settle(ctx context.Context, groupID, paidByMemberID, paidToMemberID, userID string) (*models.History, error)
}

type settlementService struct {
	expenseRepo  repository.ExpenseRepository
	groupRepo    repository.GroupRepository
	categoryRepo repository.CategoryRepository
	historyRepo  repository.HistoryRepository
	db           database.TxRunner
}

func NewSettlementService(expenseRepo repository.ExpenseRepository, groupRepo repository.GroupRepository, categoryRepo repository.CategoryRepository, historyRepo repository.HistoryRepository, db database.TxRunner) SettlementService {
	return &settlementService{
		expenseRepo:  expenseRepo,
		groupRepo:    groupRepo,
		categoryRepo: categoryRepo,
		historyRepo:  historyRepo,
		db:           db,
	}
}

func (s *settlementService) Settle(ctx context.Context, groupID, paidByMemberID, paidToMemberID, userID string) (*models.History, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	if paidByMemberID == paidToMemberID {
		return nil, apperrors.CannotSettleToSelf()
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, apperrors.DatabaseError("getting group", err)
	}
	cur := currency.LookupOrDefault(group.CurrencyCode)

	splits, err := s.expenseRepo.GetUnpaidSplits(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get unpaid splits for settlement", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting unpaid splits", err)
	}

	pairSplits := pairSplitsBetween(splits, paidByMemberID, paidToMemberID)
	if len(pairSplits) == 0 {
		return nil, apperrors.NothingToSettle()
	}

	// Splits the payer covered for the recipient count against the total;
	// the settlement clears both directions at once.
	totalPaid := 0.0
	splitIDs := make([]string, len(pairSplits))
	for i, split := range pairSplits {
		splitIDs[i] = split.ID
		if split.PaidByMemberID == paidToMemberID {
			totalPaid += split.AllocatedAmount
		} else {
			totalPaid -= split.AllocatedAmount
		}
	}
	totalPaid = cur.Round(totalPaid)

	lineItems, err := s.buildLineItems(ctx, groupID, paidByMemberID, pairSplits, cur)
	if err != nil {
		return nil, err
	}

	history := &models.History{
		ID:             uuid.New().String(),
		GroupID:        groupID,
		PaidByMemberID: paidByMemberID,
		PaidToMemberID: paidToMemberID,
		Date:           time.Now(),
		TotalPaid:      totalPaid,
		LineItems:      lineItems,
	}

	err = s.db.WithSerializableTx(ctx, func(q database.Querier) error {
		txExpenseRepo := s.expenseRepo.WithTx(q)
		txHistoryRepo := s.historyRepo.WithTx(q)

		affected, err := txExpenseRepo.MarkSplitsPaid(ctx, splitIDs)
		if err != nil {
			return apperrors.DatabaseError("marking splits paid", err)
		}
		// A concurrent settlement already claimed one of these splits.
		// Failing the whole transaction prevents a double payment.
		if affected != int64(len(splitIDs)) {
			return apperrors.SplitAlreadyPaid()
		}

		if err := txHistoryRepo.Create(ctx, history); err != nil {
			return apperrors.DatabaseError("creating history record", err)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("Settlement failed",
			zap.String("group_id", groupID),
			zap.String("paid_by", paidByMemberID),
			zap.String("paid_to", paidToMemberID),
			zap.Error(err))
		return nil, err
	}

	zap.L().Info("Settlement recorded",
		zap.String("group_id", groupID),
		zap.String("history_id", history.ID),
		zap.Float64("total_paid", totalPaid),
		zap.Int("splits_settled", len(splitIDs)))
	return history, nil
}

// buildLineItems snapshots the per-category breakdown of the settled
// splits. Category names are copied in so the record survives later
// category renames.
func (s *settlementService) buildLineItems(ctx context.Context, groupID, paidByMemberID string, pairSplits []models.Split, cur currency.Config) ([]models.HistoryLineItem, error) {
	categories, err := s.categoryRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting categories", err)
	}

	lineItems := []models.HistoryLineItem{}
	for _, category := range categories {
		amount := 0.0
		found := false
		for _, split := range pairSplits {
			if split.CategoryID != category.ID {
				continue
			}
			found = true
			if split.PaidByMemberID == paidByMemberID {
				amount -= split.AllocatedAmount
			} else {
				amount += split.AllocatedAmount
			}
		}
		if !found {
			continue
		}
		lineItems = append(lineItems, models.HistoryLineItem{
			Category: category.Name,
			Amount:   cur.Round(amount),
		})
	}
	return lineItems, nil
}
