package services

import (
	"context"
	"math"
	"testing"
	"time"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
)

const (
	memberA = "member-a"
	memberB = "member-b"
	memberC = "member-c"
)

func testMembers() []models.Member {
	return []models.Member{
		{ID: memberA, GroupID: "group-1", DisplayName: "Alice", Active: true},
		{ID: memberB, GroupID: "group-1", DisplayName: "Bob", Active: true},
		{ID: memberC, GroupID: "group-1", DisplayName: "Carol", Active: true},
	}
}

func newTestSummaryService(splits []models.Split, categories []models.Category) SummaryService {
	return NewSummaryService(
		&mockExpenseRepo{unpaidSplits: splits, markPaidAffected: -1},
		&mockGroupRepo{isMember: true},
		&mockMemberRepo{members: testMembers()},
		&mockCategoryRepo{categories: categories},
	)
}

func TestAmountsDueNetsOpposingDebts(t *testing.T) {
	// A paid a $50 split owed by B; B paid a $30 split owed by A.
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, AllocatedAmount: 50},
		{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, AllocatedAmount: 30},
	}
	s := newTestSummaryService(splits, nil)

	due, err := s.AmountsDue(context.Background(), "group-1", memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 net amount, got %d", len(due))
	}
	if due[0].OwedByMemberID != memberB || due[0].OwedToMemberID != memberA {
		t.Errorf("expected B owes A, got %s owes %s", due[0].OwedByMemberID, due[0].OwedToMemberID)
	}
	if due[0].Amount != 20 {
		t.Errorf("net amount: got %.2f, want 20.00", due[0].Amount)
	}
}

func TestAmountsDueSymmetricAcrossPerspectives(t *testing.T) {
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, AllocatedAmount: 42.17},
		{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, AllocatedAmount: 13.40},
		{ID: "s3", PaidByMemberID: memberA, OwedByMemberID: memberB, AllocatedAmount: 8.25},
	}
	s := newTestSummaryService(splits, nil)

	fromA, err := s.AmountsDue(context.Background(), "group-1", memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromB, err := s.AmountsDue(context.Background(), "group-1", memberB, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fromA) != 1 || len(fromB) != 1 {
		t.Fatalf("expected one net amount from each perspective, got %d and %d", len(fromA), len(fromB))
	}
	if fromA[0].Amount != fromB[0].Amount {
		t.Errorf("perspectives disagree on amount: %.2f vs %.2f", fromA[0].Amount, fromB[0].Amount)
	}
	if fromA[0].OwedByMemberID != fromB[0].OwedByMemberID || fromA[0].OwedToMemberID != fromB[0].OwedToMemberID {
		t.Error("perspectives disagree on debt direction")
	}
	if math.Abs(fromA[0].Amount-37.02) > 0.001 {
		t.Errorf("net amount: got %.2f, want 37.02", fromA[0].Amount)
	}
}

func TestAmountsDueSuppressesZeroBalances(t *testing.T) {
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, AllocatedAmount: 25},
		{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, AllocatedAmount: 25},
	}
	s := newTestSummaryService(splits, nil)

	due, err := s.AmountsDue(context.Background(), "group-1", memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected no rows for balanced members, got %d", len(due))
	}
}

func TestAmountsDueIgnoresUnrelatedDebts(t *testing.T) {
	// B and C owe each other; A's summary must not mention it.
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberB, OwedByMemberID: memberC, AllocatedAmount: 99},
		{ID: "s2", PaidByMemberID: memberA, OwedByMemberID: memberC, AllocatedAmount: 10},
	}
	s := newTestSummaryService(splits, nil)

	due, err := s.AmountsDue(context.Background(), "group-1", memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 net amount, got %d", len(due))
	}
	if due[0].OwedByMemberID != memberC || due[0].Amount != 10 {
		t.Errorf("expected C owes A 10.00, got %s owes %.2f", due[0].OwedByMemberID, due[0].Amount)
	}
}

func TestAmountsDueFilteredByDateRange(t *testing.T) {
	january := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, AllocatedAmount: 40, Date: january},
		{ID: "s2", PaidByMemberID: memberA, OwedByMemberID: memberB, AllocatedAmount: 60, Date: march},
	}
	s := newTestSummaryService(splits, nil)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	due, err := s.AmountsDueFiltered(context.Background(), "group-1", memberA, from, to, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 net amount, got %d", len(due))
	}
	if due[0].Amount != 60 {
		t.Errorf("expected only the March split counted, got %.2f", due[0].Amount)
	}
}

func TestAmountsDueUnknownMember(t *testing.T) {
	s := newTestSummaryService(nil, nil)

	_, err := s.AmountsDue(context.Background(), "group-1", "not-a-member", "user-1")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeMemberNotFound {
		t.Errorf("expected member not found error, got %v", err)
	}
}

func TestAmountsDueRequiresMembership(t *testing.T) {
	s := NewSummaryService(
		&mockExpenseRepo{markPaidAffected: -1},
		&mockGroupRepo{isMember: false},
		&mockMemberRepo{members: testMembers()},
		&mockCategoryRepo{},
	)

	_, err := s.AmountsDue(context.Background(), "group-1", memberA, "outsider")
	if err == nil {
		t.Fatal("expected error for non-member caller")
	}
}

func TestCategoryBreakdownRollsUpToNetAmount(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-food", GroupID: "group-1", Name: "Food", Active: true},
		{ID: "cat-rent", GroupID: "group-1", Name: "Rent", Active: true},
		{ID: "cat-misc", GroupID: "group-1", Name: "Misc", Active: true},
	}
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, CategoryID: "cat-food", AllocatedAmount: 30},
		{ID: "s2", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 12.50},
		{ID: "s3", PaidByMemberID: memberA, OwedByMemberID: memberB, CategoryID: "cat-rent", AllocatedAmount: 500},
		// C's splits must not leak into the A/B breakdown.
		{ID: "s4", PaidByMemberID: memberC, OwedByMemberID: memberB, CategoryID: "cat-rent", AllocatedAmount: 500},
	}
	s := newTestSummaryService(splits, categories)

	breakdown, err := s.CategoryBreakdown(context.Background(), "group-1", memberB, memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(breakdown))
	}

	byName := map[string]float64{}
	total := 0.0
	for _, row := range breakdown {
		byName[row.CategoryName] = row.Amount
		total += row.Amount
	}
	if byName["Food"] != 17.50 {
		t.Errorf("Food: got %.2f, want 17.50", byName["Food"])
	}
	if byName["Rent"] != 500 {
		t.Errorf("Rent: got %.2f, want 500.00", byName["Rent"])
	}

	due, err := s.AmountsDue(context.Background(), "group-1", memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	netToA := 0.0
	for _, row := range due {
		if row.OwedByMemberID == memberB {
			netToA = row.Amount
		}
	}
	if math.Abs(total-netToA) > 0.001 {
		t.Errorf("breakdown total %.2f does not match net amount %.2f", total, netToA)
	}
}

func TestCategoryBreakdownKeepsNegativeCategories(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-food", GroupID: "group-1", Name: "Food", Active: true},
	}
	// Debtor paid more in this category than the creditor did.
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberB, OwedByMemberID: memberA, CategoryID: "cat-food", AllocatedAmount: 20},
		{ID: "s2", PaidByMemberID: memberA, OwedByMemberID: memberB, CategoryID: "cat-food", AllocatedAmount: 5},
	}
	s := newTestSummaryService(splits, categories)

	breakdown, err := s.CategoryBreakdown(context.Background(), "group-1", memberB, memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown) != 1 {
		t.Fatalf("expected 1 category, got %d", len(breakdown))
	}
	if breakdown[0].Amount != -15 {
		t.Errorf("expected -15.00 for category the debtor overpaid, got %.2f", breakdown[0].Amount)
	}
}

func TestCategoryBreakdownSkipsEmptyCategories(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-food", GroupID: "group-1", Name: "Food", Active: true},
		{ID: "cat-rent", GroupID: "group-1", Name: "Rent", Active: true},
	}
	splits := []models.Split{
		{ID: "s1", PaidByMemberID: memberA, OwedByMemberID: memberB, CategoryID: "cat-food", AllocatedAmount: 10},
	}
	s := newTestSummaryService(splits, categories)

	breakdown, err := s.CategoryBreakdown(context.Background(), "group-1", memberB, memberA, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown) != 1 {
		t.Fatalf("expected only categories with splits, got %d rows", len(breakdown))
	}
	if breakdown[0].CategoryID != "cat-food" {
		t.Errorf("unexpected category %s", breakdown[0].CategoryID)
	}
}
