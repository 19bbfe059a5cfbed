package services

import (
	"context"

	"pipsplit-backend/database"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"
)

type mockExpenseRepo struct {
	expense             *models.Expense
	createdSplits       []models.Split
	deletedIDs          []string
	unpaidSplits        []models.Split
	markPaidAffected    int64
	markPaidErr         error
	markedPaidIDs       []string
	unpaidMemberCount   int
	unpaidCategoryCount int
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	return m.expense, nil
}
func (m *mockExpenseRepo) GetByGroupID(ctx context.Context, groupID string) ([]models.Expense, error) {
	return nil, nil
}
func (m *mockExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	m.expense = expense
	return nil
}
func (m *mockExpenseRepo) Update(ctx context.Context, expense *models.Expense) error { return nil }
func (m *mockExpenseRepo) Delete(ctx context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}
func (m *mockExpenseRepo) GetSplits(ctx context.Context, expenseID string) ([]models.Split, error) {
	return nil, nil
}
func (m *mockExpenseRepo) GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]models.Split, error) {
	return nil, nil
}
func (m *mockExpenseRepo) CreateSplit(ctx context.Context, split *models.Split) error {
	m.createdSplits = append(m.createdSplits, *split)
	return nil
}
func (m *mockExpenseRepo) DeleteSplits(ctx context.Context, expenseID string) error   { return nil }
func (m *mockExpenseRepo) GetUnpaidSplits(ctx context.Context, groupID string) ([]models.Split, error) {
	return m.unpaidSplits, nil
}
func (m *mockExpenseRepo) MarkSplitsPaid(ctx context.Context, splitIDs []string) (int64, error) {
	m.markedPaidIDs = splitIDs
	if m.markPaidErr != nil {
		return 0, m.markPaidErr
	}
	if m.markPaidAffected >= 0 {
		return m.markPaidAffected, nil
	}
	return int64(len(splitIDs)), nil
}
func (m *mockExpenseRepo) CountUnpaidSplitsForMember(ctx context.Context, groupID, memberID string) (int, error) {
	return m.unpaidMemberCount, nil
}
func (m *mockExpenseRepo) CountUnpaidSplitsForCategory(ctx context.Context, groupID, categoryID string) (int, error) {
	return m.unpaidCategoryCount, nil
}
func (m *mockExpenseRepo) WithTx(tx database.Querier) repository.ExpenseRepository { return m }

type mockGroupRepo struct {
	group    *models.Group
	isMember bool
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	if m.group != nil {
		return m.group, nil
	}
	return &models.Group{ID: id, Name: "Test Group", CurrencyCode: "USD", Active: true}, nil
}
func (m *mockGroupRepo) GetByUserID(ctx context.Context, userID string) ([]models.Group, error) {
	return nil, nil
}
func (m *mockGroupRepo) Create(ctx context.Context, group *models.Group) error { return nil }
func (m *mockGroupRepo) Update(ctx context.Context, group *models.Group) error { return nil }
func (m *mockGroupRepo) Delete(ctx context.Context, id string) error           { return nil }
func (m *mockGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	return m.isMember, nil
}
func (m *mockGroupRepo) WithTx(tx database.Querier) repository.GroupRepository { return m }

type mockMemberRepo struct {
	members []models.Member
	created []*models.Member
	updated []*models.Member
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id string) (*models.Member, error) {
	for i := range m.members {
		if m.members[i].ID == id {
			return &m.members[i], nil
		}
	}
	return nil, nil
}
func (m *mockMemberRepo) GetByGroupID(ctx context.Context, groupID string) ([]models.Member, error) {
	return m.members, nil
}
func (m *mockMemberRepo) GetActiveByGroupID(ctx context.Context, groupID string) ([]models.Member, error) {
	var active []models.Member
	for _, member := range m.members {
		if member.Active {
			active = append(active, member)
		}
	}
	return active, nil
}
func (m *mockMemberRepo) Create(ctx context.Context, member *models.Member) error {
	m.created = append(m.created, member)
	return nil
}
func (m *mockMemberRepo) Update(ctx context.Context, member *models.Member) error {
	m.updated = append(m.updated, member)
	return nil
}
func (m *mockMemberRepo) WithTx(tx database.Querier) repository.MemberRepository  { return m }

type mockCategoryRepo struct {
	categories []models.Category
	updated    []*models.Category
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id {
			return &m.categories[i], nil
		}
	}
	return nil, nil
}
func (m *mockCategoryRepo) GetByGroupID(ctx context.Context, groupID string) ([]models.Category, error) {
	return m.categories, nil
}
func (m *mockCategoryRepo) GetActiveByGroupID(ctx context.Context, groupID string) ([]models.Category, error) {
	var active []models.Category
	for _, category := range m.categories {
		if category.Active {
			active = append(active, category)
		}
	}
	return active, nil
}
func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error { return nil }
func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	m.updated = append(m.updated, category)
	return nil
}
func (m *mockCategoryRepo) WithTx(tx database.Querier) repository.CategoryRepository    { return m }

type mockHistoryRepo struct {
	records   []models.History
	created   []*models.History
	createErr error
}

func (m *mockHistoryRepo) GetByID(ctx context.Context, id string) (*models.History, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, nil
}
func (m *mockHistoryRepo) GetByGroupID(ctx context.Context, groupID string) ([]models.History, error) {
	return m.records, nil
}
func (m *mockHistoryRepo) Create(ctx context.Context, history *models.History) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, history)
	return nil
}
func (m *mockHistoryRepo) Delete(ctx context.Context, id string) error             { return nil }
func (m *mockHistoryRepo) WithTx(tx database.Querier) repository.HistoryRepository { return m }

// fakeTxRunner invokes fn directly; the mocks above ignore the Querier.
type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(database.Querier) error) error {
	return fn(nil)
}
func (f *fakeTxRunner) WithSerializableTx(ctx context.Context, fn func(database.Querier) error) error {
	return fn(nil)
}
