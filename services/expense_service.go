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

type ExpenseService interface {
	GetByID(ctx context.Context, expenseID, userID string) (*models.Expense, error)
	GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Expense, error)
	Create(ctx context.Context, userID string, expense *models.Expense, splits []SplitInput) (*models.Expense, error)
	Update(ctx context.Context, expenseID, userID string, expense *models.Expense, splits []SplitInput) (*models.Expense, error)
	Delete(ctx context.Context, expenseID, userID string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	groupRepo   repository.GroupRepository
	allocation  AllocationService
	db          database.TxRunner
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, groupRepo repository.GroupRepository, allocation AllocationService, db database.TxRunner) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		groupRepo:   groupRepo,
		allocation:  allocation,
		db:          db,
	}
}

func (s *expenseService) GetByID(ctx context.Context, expenseID, userID string) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.ExpenseNotFound()
		}
		zap.L().Error("Failed to get expense", zap.String("expense_id", expenseID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting expense", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, expense.GroupID, userID); err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *expenseService) GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Expense, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get group expenses", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting expenses", err)
	}

	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

func (s *expenseService) Create(ctx context.Context, userID string, expense *models.Expense, splits []SplitInput) (*models.Expense, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, expense.GroupID, userID); err != nil {
		return nil, err
	}

	if err := validateExpenseFields(expense); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, expense.GroupID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, apperrors.DatabaseError("getting group", err)
	}
	cur := currency.LookupOrDefault(group.CurrencyCode)

	result, err := s.allocate(expense, splits, cur)
	if err != nil {
		return nil, err
	}

	expense.ID = uuid.New().String()
	expense.Paid = false
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}

	err = s.db.WithTx(ctx, func(q database.Querier) error {
		txRepo := s.expenseRepo.WithTx(q)
		if err := txRepo.Create(ctx, expense); err != nil {
			return apperrors.DatabaseError("creating expense", err)
		}
		return createSplits(ctx, txRepo, expense, result.Splits)
	})
	if err != nil {
		zap.L().Error("Failed to create expense transactionally", zap.String("group_id", expense.GroupID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("Expense created",
		zap.String("expense_id", expense.ID),
		zap.String("group_id", expense.GroupID),
		zap.Float64("amount", expense.TotalAmount))
	return s.expenseRepo.GetByID(ctx, expense.ID)
}

func (s *expenseService) Update(ctx context.Context, expenseID, userID string, expense *models.Expense, splits []SplitInput) (*models.Expense, error) {
	existing, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.ExpenseNotFound()
		}
		zap.L().Error("Failed to find expense for update", zap.String("expense_id", expenseID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting expense", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, existing.GroupID, userID); err != nil {
		return nil, err
	}

	for _, split := range existing.Splits {
		if split.Paid {
			return nil, apperrors.Conflict("expense has settled splits and cannot be modified")
		}
	}

	expense.ID = expenseID
	expense.GroupID = existing.GroupID
	if expense.Date.IsZero() {
		expense.Date = existing.Date
	}

	if err := validateExpenseFields(expense); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, expense.GroupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting group", err)
	}
	cur := currency.LookupOrDefault(group.CurrencyCode)

	result, err := s.allocate(expense, splits, cur)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(q database.Querier) error {
		txRepo := s.expenseRepo.WithTx(q)
		if err := txRepo.Update(ctx, expense); err != nil {
			return apperrors.DatabaseError("updating expense", err)
		}
		if err := txRepo.DeleteSplits(ctx, expenseID); err != nil {
			return apperrors.DatabaseError("deleting existing splits", err)
		}
		return createSplits(ctx, txRepo, expense, result.Splits)
	})
	if err != nil {
		zap.L().Error("Failed to update expense transactionally", zap.String("expense_id", expenseID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("Expense updated", zap.String("expense_id", expenseID), zap.Float64("new_amount", expense.TotalAmount))
	return s.expenseRepo.GetByID(ctx, expenseID)
}

func (s *expenseService) Delete(ctx context.Context, expenseID, userID string) error {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return apperrors.ExpenseNotFound()
		}
		zap.L().Error("Failed to find expense for deletion", zap.String("expense_id", expenseID), zap.Error(err))
		return apperrors.DatabaseError("getting expense", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, expense.GroupID, userID); err != nil {
		return err
	}

	for _, split := range expense.Splits {
		if split.Paid {
			return apperrors.Conflict("expense has settled splits and cannot be deleted")
		}
	}

	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		zap.L().Error("Failed to delete expense", zap.String("expense_id", expenseID), zap.Error(err))
		return apperrors.DatabaseError("deleting expense", err)
	}

	zap.L().Info("Expense deleted", zap.String("expense_id", expenseID))
	return nil
}

// allocate runs the allocation engine over the requested splits and
// refuses partial allocations: an expense is only ever stored with its
// splits summing exactly to the total.
func (s *expenseService) allocate(expense *models.Expense, splits []SplitInput, cur currency.Config) (*AllocationResult, error) {
	result, err := s.allocation.Allocate(AllocationInput{
		TotalAmount:        expense.TotalAmount,
		SharedAmount:       expense.SharedAmount,
		ProportionalAmount: expense.ProportionalAmount,
		SplitByPercentage:  expense.SplitByPercentage,
		Splits:             splits,
	}, cur)
	if err != nil {
		return nil, err
	}

	if len(result.Splits) == 0 {
		return nil, apperrors.InvalidRequest("at least one split is required")
	}

	if !result.FullyAllocated {
		if expense.SplitByPercentage {
			percentageSum := 0.0
			for _, split := range result.Splits {
				percentageSum += split.Percentage
			}
			return nil, apperrors.InvalidPercentages(roundPercentage(percentageSum))
		}
		allocatedTotal := 0.0
		for _, split := range result.Splits {
			allocatedTotal += split.AllocatedAmount
		}
		return nil, apperrors.IncompleteAllocation(cur.Round(allocatedTotal), cur.Round(expense.TotalAmount))
	}

	for _, split := range result.Splits {
		if split.OwedByMemberID == "" {
			return nil, apperrors.MissingRequiredField("owed_by_member_id")
		}
	}

	expense.SharedAmount = result.AdjustedSharedAmount
	return result, nil
}

func createSplits(ctx context.Context, txRepo repository.ExpenseRepository, expense *models.Expense, results []SplitResult) error {
	for _, r := range results {
		split := models.Split{
			ID:              uuid.New().String(),
			ExpenseID:       expense.ID,
			GroupID:         expense.GroupID,
			OwedByMemberID:  r.OwedByMemberID,
			PaidByMemberID:  expense.PaidByMemberID,
			CategoryID:      expense.CategoryID,
			AssignedAmount:  r.AssignedAmount,
			Percentage:      r.Percentage,
			AllocatedAmount: r.AllocatedAmount,
			Paid:            false,
			Date:            expense.Date,
		}
		if err := txRepo.CreateSplit(ctx, &split); err != nil {
			return apperrors.DatabaseError("creating expense split", err)
		}
	}
	return nil
}

func validateExpenseFields(expense *models.Expense) error {
	if len(expense.Description) < MinDescriptionLength || len(expense.Description) > MaxDescriptionLength {
		return apperrors.InvalidFieldFormat("description", "between 3 and 100 characters")
	}
	if expense.TotalAmount <= 0 {
		return apperrors.InvalidAmount("total_amount must be positive")
	}
	if expense.PaidByMemberID == "" {
		return apperrors.MissingRequiredField("paid_by_member_id")
	}
	if expense.CategoryID == "" {
		return apperrors.MissingRequiredField("category_id")
	}
	return nil
}
