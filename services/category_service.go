package services

import (
	"context"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages a group's expense categories. Like members,
// categories are deactivated rather than deleted so old splits and
// settlement line items keep their classification.
type CategoryService interface {
	GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Category, error)
	Create(ctx context.Context, userID string, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, categoryID, userID string, category *models.Category) (*models.Category, error)
	Deactivate(ctx context.Context, categoryID, userID string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	groupRepo    repository.GroupRepository
	expenseRepo  repository.ExpenseRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, groupRepo repository.GroupRepository, expenseRepo repository.ExpenseRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
		expenseRepo:  expenseRepo,
	}
}

func (s *categoryService) GetByGroupID(ctx context.Context, groupID, userID string) ([]models.Category, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get categories", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting categories", err)
	}

	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, userID string, category *models.Category) (*models.Category, error) {
	if err := RequireGroupMembership(ctx, s.groupRepo, category.GroupID, userID); err != nil {
		return nil, err
	}

	if category.Name == "" {
		return nil, apperrors.MissingRequiredField("name")
	}

	category.ID = uuid.New().String()
	category.Active = true

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		zap.L().Error("Failed to create category", zap.String("group_id", category.GroupID), zap.Error(err))
		return nil, apperrors.DatabaseError("creating category", err)
	}

	zap.L().Info("Category created", zap.String("category_id", category.ID), zap.String("group_id", category.GroupID))
	return s.categoryRepo.GetByID(ctx, category.ID)
}

func (s *categoryService) Update(ctx context.Context, categoryID, userID string, category *models.Category) (*models.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.CategoryNotFound()
		}
		return nil, apperrors.DatabaseError("getting category", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, existing.GroupID, userID); err != nil {
		return nil, err
	}

	category.ID = categoryID
	category.GroupID = existing.GroupID
	if category.Name == "" {
		return nil, apperrors.MissingRequiredField("name")
	}

	if existing.Active && !category.Active {
		if err := s.ensureNoUnpaidSplits(ctx, existing); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		zap.L().Error("Failed to update category", zap.String("category_id", categoryID), zap.Error(err))
		return nil, apperrors.DatabaseError("updating category", err)
	}

	return s.categoryRepo.GetByID(ctx, categoryID)
}

func (s *categoryService) Deactivate(ctx context.Context, categoryID, userID string) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return apperrors.CategoryNotFound()
		}
		return apperrors.DatabaseError("getting category", err)
	}

	if err := RequireGroupMembership(ctx, s.groupRepo, category.GroupID, userID); err != nil {
		return err
	}

	if err := s.ensureNoUnpaidSplits(ctx, category); err != nil {
		return err
	}

	category.Active = false
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		zap.L().Error("Failed to deactivate category", zap.String("category_id", categoryID), zap.Error(err))
		return apperrors.DatabaseError("deactivating category", err)
	}

	zap.L().Info("Category deactivated", zap.String("category_id", categoryID), zap.String("group_id", category.GroupID))
	return nil
}

func (s *categoryService) ensureNoUnpaidSplits(ctx context.Context, category *models.Category) error {
	count, err := s.expenseRepo.CountUnpaidSplitsForCategory(ctx, category.GroupID, category.ID)
	if err != nil {
		return apperrors.DatabaseError("counting unpaid splits", err)
	}
	if count > 0 {
		return apperrors.CategoryHasUnpaidSplits(category.Name)
	}
	return nil
}
