package services

import (
	"context"
	"testing"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: "cat-food", GroupID: "group-1", Name: "Food", Active: true},
		{ID: "cat-rent", GroupID: "group-1", Name: "Rent", Active: true},
	}
}

func TestDeactivateCategoryWithUnpaidSplits(t *testing.T) {
	categoryRepo := &mockCategoryRepo{categories: testCategories()}
	s := NewCategoryService(
		categoryRepo,
		&mockGroupRepo{isMember: true},
		&mockExpenseRepo{markPaidAffected: -1, unpaidCategoryCount: 3},
	)

	err := s.Deactivate(context.Background(), "cat-food", "user-1")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeCategoryHasUnpaidSplits {
		t.Errorf("expected category-has-unpaid-splits error, got %v", err)
	}
	if len(categoryRepo.updated) != 0 {
		t.Error("category must stay active while splits are outstanding")
	}
}

func TestDeactivateCategorySettledUp(t *testing.T) {
	categoryRepo := &mockCategoryRepo{categories: testCategories()}
	s := NewCategoryService(
		categoryRepo,
		&mockGroupRepo{isMember: true},
		&mockExpenseRepo{markPaidAffected: -1},
	)

	if err := s.Deactivate(context.Background(), "cat-food", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categoryRepo.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(categoryRepo.updated))
	}
	if categoryRepo.updated[0].Active {
		t.Error("category should be inactive after deactivation")
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	s := NewCategoryService(
		&mockCategoryRepo{},
		&mockGroupRepo{isMember: true},
		&mockExpenseRepo{markPaidAffected: -1},
	)

	_, err := s.Create(context.Background(), "user-1", &models.Category{GroupID: "group-1"})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeMissingRequiredField {
		t.Errorf("expected missing required field error, got %v", err)
	}
}
