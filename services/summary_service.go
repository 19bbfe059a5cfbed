package services

import (
	"context"
	"time"

	"pipsplit-backend/currency"
	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"

	"go.uber.org/zap"
)

// SummaryService computes who owes whom. Everything here is derived from
// the unpaid splits on every call; nothing is cached or persisted.
type SummaryService interface {
	AmountsDue(ctx context.Context, groupID, memberID, userID string) ([]models.AmountDue, error)
	AmountsDueFiltered(ctx context.Context, groupID, memberID string, from, to time.Time, userID string) ([]models.AmountDue, error)
	CategoryBreakdown(ctx context.Context, groupID, owedByMemberID, owedToMemberID, userID string) ([]models.AmountDue, error)
}

type summaryService struct {
	expenseRepo  repository.ExpenseRepository
	groupRepo    repository.GroupRepository
	memberRepo   repository.MemberRepository
	categoryRepo repository.CategoryRepository
}

func NewSummaryService(expenseRepo repository.ExpenseRepository, groupRepo repository.GroupRepository, memberRepo repository.MemberRepository, categoryRepo repository.CategoryRepository) SummaryService {
	return &summaryService{
		expenseRepo:  expenseRepo,
		groupRepo:    groupRepo,
		memberRepo:   memberRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *summaryService) AmountsDue(ctx context.Context, groupID, memberID, userID string) ([]models.AmountDue, error) {
	return s.AmountsDueFiltered(ctx, groupID, memberID, time.Time{}, time.Time{}, userID)
}

func (s *summaryService) AmountsDueFiltered(ctx context.Context, groupID, memberID string, from, to time.Time, userID string) ([]models.AmountDue, error) {
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
	cur := currency.LookupOrDefault(group.CurrencyCode)

	members, err := s.memberRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting members", err)
	}
	if !memberInGroup(members, memberID) {
		return nil, apperrors.MemberNotFound()
	}

	splits, err := s.expenseRepo.GetUnpaidSplits(ctx, groupID)
	if err != nil {
		zap.L().Error("Failed to get unpaid splits", zap.String("group_id", groupID), zap.Error(err))
		return nil, apperrors.DatabaseError("getting unpaid splits", err)
	}
	splits = filterByDateRange(splits, from, to)

	// Only splits the perspective member participates in matter; a debt
	// between two other members never shows up in this member's summary.
	memberSplits := make([]models.Split, 0, len(splits))
	for _, split := range splits {
		if split.OwedByMemberID == memberID || split.PaidByMemberID == memberID {
			memberSplits = append(memberSplits, split)
		}
	}

	amountsDue := []models.AmountDue{}
	for _, other := range members {
		if other.ID == memberID {
			continue
		}

		owedToMember := 0.0
		owedByMember := 0.0
		for _, split := range memberSplits {
			if split.OwedByMemberID == other.ID && split.PaidByMemberID == memberID {
				owedToMember += split.AllocatedAmount
			}
			if split.PaidByMemberID == other.ID && split.OwedByMemberID == memberID {
				owedByMember += split.AllocatedAmount
			}
		}
		owedToMember = cur.Round(owedToMember)
		owedByMember = cur.Round(owedByMember)

		// Equal claims cancel out entirely; no zero-amount rows.
		switch {
		case owedToMember > owedByMember:
			amountsDue = append(amountsDue, models.AmountDue{
				OwedByMemberID: other.ID,
				OwedToMemberID: memberID,
				Amount:         cur.Round(owedToMember - owedByMember),
			})
		case owedByMember > owedToMember:
			amountsDue = append(amountsDue, models.AmountDue{
				OwedByMemberID: memberID,
				OwedToMemberID: other.ID,
				Amount:         cur.Round(owedByMember - owedToMember),
			})
		}
	}

	return amountsDue, nil
}

func (s *summaryService) CategoryBreakdown(ctx context.Context, groupID, owedByMemberID, owedToMemberID, userID string) ([]models.AmountDue, error) {
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
	cur := currency.LookupOrDefault(group.CurrencyCode)

	categories, err := s.categoryRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting categories", err)
	}

	splits, err := s.expenseRepo.GetUnpaidSplits(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError("getting unpaid splits", err)
	}

	pairSplits := pairSplitsBetween(splits, owedByMemberID, owedToMemberID)

	breakdown := []models.AmountDue{}
	for _, category := range categories {
		amount := 0.0
		found := false
		for _, split := range pairSplits {
			if split.CategoryID != category.ID {
				continue
			}
			found = true
			if split.PaidByMemberID == owedToMemberID {
				amount += split.AllocatedAmount
			} else {
				amount -= split.AllocatedAmount
			}
		}
		if !found {
			continue
		}
		breakdown = append(breakdown, models.AmountDue{
			OwedByMemberID: owedByMemberID,
			OwedToMemberID: owedToMemberID,
			Amount:         cur.Round(amount),
			CategoryID:     category.ID,
			CategoryName:   category.Name,
		})
	}

	return breakdown, nil
}

// pairSplitsBetween keeps the unpaid splits where one of the two members
// paid and the other owes.
func pairSplitsBetween(splits []models.Split, owedByMemberID, owedToMemberID string) []models.Split {
	pair := make([]models.Split, 0, len(splits))
	for _, split := range splits {
		creditorPaid := split.PaidByMemberID == owedToMemberID && split.OwedByMemberID == owedByMemberID
		debtorPaid := split.PaidByMemberID == owedByMemberID && split.OwedByMemberID == owedToMemberID
		if creditorPaid || debtorPaid {
			pair = append(pair, split)
		}
	}
	return pair
}

func filterByDateRange(splits []models.Split, from, to time.Time) []models.Split {
	if from.IsZero() && to.IsZero() {
		return splits
	}
	filtered := make([]models.Split, 0, len(splits))
	for _, split := range splits {
		if !from.IsZero() && split.Date.Before(from) {
			continue
		}
		if !to.IsZero() && split.Date.After(to) {
			continue
		}
		filtered = append(filtered, split)
	}
	return filtered
}

func memberInGroup(members []models.Member, memberID string) bool {
	for _, m := range members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}
