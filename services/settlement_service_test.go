package services

import (
	"context"
	"errors"
	"testing"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
)

func newTestSettlementService(expenseRepo *mockExpenseRepo, historyRepo *mockHistoryRepo) SettlementService {
	return NewSettlementService(
		expenseRepo,
		&mockGroupRepo{isMember: true},
		&mockCategoryRepo{categories: []models.Category{
			{ID: "cat-food", GroupID: "group-1", Name: "Food", Active: true},
			{ID: "cat-rent", GroupID: "group-1", Name: "Rent", Active: true},
		}},
		historyRepo,
		&fakeTxRunner{},
	)
}

func TestSettleRecordsHistoryAndMarksSplits(t *testing.T) {
	// A settles up with B: B covered 50 + 12.50 for A, A covered 20 for B.
	expenseRepo := &mockExpenseRepo{
		markPaidAffected: -1,
		unpaidSplits: []models.Split{
			{ID: "s1", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 50},
			{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-rent", AllocatedAmount: 12.50},
			{ID: "s3", PaidByMemberID: memberA, OwedByMemberID: memberB, CategoryID: "cat-food", AllocatedAmount: 20},
			// Unrelated to the A/B pair.
			{ID: "s4", PaidByMemberID: memberC, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 99},
		},
	}
	historyRepo := &mockHistoryRepo{}
	s := newTestSettlementService(expenseRepo, historyRepo)

	history, err := s.Settle(context.Background(), "group-1", memberA, memberB, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if history.TotalPaid != 42.50 {
		t.Errorf("total paid: got %.2f, want 42.50", history.TotalPaid)
	}
	if history.PaidByMemberID != memberA || history.PaidToMemberID != memberB {
		t.Errorf("wrong direction: %s paid %s", history.PaidByMemberID, history.PaidToMemberID)
	}

	if len(expenseRepo.markedPaidIDs) != 3 {
		t.Fatalf("expected 3 splits marked paid, got %d", len(expenseRepo.markedPaidIDs))
	}
	for _, id := range expenseRepo.markedPaidIDs {
		if id == "s4" {
			t.Error("split outside the pair was marked paid")
		}
	}

	if len(historyRepo.created) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(historyRepo.created))
	}
	items := map[string]float64{}
	for _, item := range history.LineItems {
		items[item.Category] = item.Amount
	}
	if items["Food"] != 30 {
		t.Errorf("Food line item: got %.2f, want 30.00", items["Food"])
	}
	if items["Rent"] != 12.50 {
		t.Errorf("Rent line item: got %.2f, want 12.50", items["Rent"])
	}
}

func TestSettleToSelf(t *testing.T) {
	s := newTestSettlementService(&mockExpenseRepo{markPaidAffected: -1}, &mockHistoryRepo{})

	_, err := s.Settle(context.Background(), "group-1", memberA, memberA, "user-1")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeCannotSettleToSelf {
		t.Errorf("expected cannot-settle-to-self error, got %v", err)
	}
}

func TestSettleNothingOutstanding(t *testing.T) {
	expenseRepo := &mockExpenseRepo{
		markPaidAffected: -1,
		unpaidSplits: []models.Split{
			{ID: "s1", PaidByMemberID: memberC, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 10},
		},
	}
	s := newTestSettlementService(expenseRepo, &mockHistoryRepo{})

	_, err := s.Settle(context.Background(), "group-1", memberA, memberB, "user-1")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeNothingToSettle {
		t.Errorf("expected nothing-to-settle error, got %v", err)
	}
}

func TestSettleRaceFailsWholeTransaction(t *testing.T) {
	// A concurrent settlement already paid one of the two splits: the
	// update reports fewer rows than requested and nothing is recorded.
	expenseRepo := &mockExpenseRepo{
		markPaidAffected: 1,
		unpaidSplits: []models.Split{
			{ID: "s1", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 25},
			{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-rent", AllocatedAmount: 25},
		},
	}
	historyRepo := &mockHistoryRepo{}
	s := newTestSettlementService(expenseRepo, historyRepo)

	_, err := s.Settle(context.Background(), "group-1", memberA, memberB, "user-1")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeSplitPaid {
		t.Errorf("expected split-already-paid error, got %v", err)
	}
	if len(historyRepo.created) != 0 {
		t.Error("history record must not be created when the mark fails")
	}
}

func TestSettleHistoryWriteFailure(t *testing.T) {
	expenseRepo := &mockExpenseRepo{
		markPaidAffected: -1,
		unpaidSplits: []models.Split{
			{ID: "s1", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 25},
		},
	}
	historyRepo := &mockHistoryRepo{createErr: errors.New("write failed")}
	s := newTestSettlementService(expenseRepo, historyRepo)

	_, err := s.Settle(context.Background(), "group-1", memberA, memberB, "user-1")
	if err == nil {
		t.Fatal("expected error when the history write fails")
	}
	if len(historyRepo.created) != 0 {
		t.Error("no history record should survive a failed write")
	}
}

func TestSettleNegativeNetDirection(t *testing.T) {
	// The payer had covered more than the recipient: the recorded total is
	// negative, documenting that the "payment" flowed the other way.
	expenseRepo := &mockExpenseRepo{
		markPaidAffected: -1,
		unpaidSplits: []models.Split{
			{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, CategoryID: "cat-food", AllocatedAmount: 40},
			{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 10},
		},
	}
	s := newTestSettlementService(expenseRepo, &mockHistoryRepo{})

	history, err := s.Settle(context.Background(), "group-1", memberA, memberB, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.TotalPaid != -30 {
		t.Errorf("total paid: got %.2f, want -30.00", history.TotalPaid)
	}
}
