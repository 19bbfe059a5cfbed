package main

import (
	"context"
	"log"
	"time"

	"pipsplit-backend/config"
	"pipsplit-backend/currency"
	"pipsplit-backend/database"
	"pipsplit-backend/models"
	"pipsplit-backend/repository"
	"pipsplit-backend/services"

	"github.com/google/uuid"
)

var seedUsers = []struct {
	name   string
	userID string
}{
	{"Alice", "d5a2089c-e39a-4b62-a973-778f6729323d"},
	{"Bob", "38c072a2-43f9-42b9-b603-6061c49d5c2d"},
	{"Carol", "ad655801-23a9-4a33-8695-81d4426604fb"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	log.Println("Starting database seeding...")

	if err := clearDatabase(ctx, db); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}

	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	group := &models.Group{
		ID:           uuid.New().String(),
		Name:         "Beach House",
		CurrencyCode: "USD",
		Active:       true,
	}
	if err := groupRepo.Create(ctx, group); err != nil {
		log.Fatalf("Failed to seed group: %v", err)
	}
	log.Printf("Seeded group %q", group.Name)

	members := map[string]*models.Member{}
	for i, u := range seedUsers {
		uid := u.userID
		member := &models.Member{
			ID:          uuid.New().String(),
			GroupID:     group.ID,
			UserID:      &uid,
			DisplayName: u.name,
			Active:      true,
			GroupAdmin:  i == 0,
		}
		if err := memberRepo.Create(ctx, member); err != nil {
			log.Fatalf("Failed to seed member %s: %v", u.name, err)
		}
		members[u.name] = member
	}
	log.Printf("Seeded %d members", len(members))

	categories := map[string]*models.Category{}
	for _, name := range []string{"Groceries", "Rent", "Utilities"} {
		category := &models.Category{
			ID:      uuid.New().String(),
			GroupID: group.ID,
			Name:    name,
			Active:  true,
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			log.Fatalf("Failed to seed category %s: %v", name, err)
		}
		categories[name] = category
	}
	log.Printf("Seeded %d categories", len(categories))

	allocation := services.NewAllocationService()
	cur := currency.LookupOrDefault(group.CurrencyCode)

	seedExpenses := []struct {
		description string
		category    string
		paidBy      string
		total       float64
		owedBy      []string
	}{
		{"Weekly groceries", "Groceries", "Alice", 87.30, []string{"Alice", "Bob", "Carol"}},
		{"September rent", "Rent", "Bob", 1800, []string{"Alice", "Bob", "Carol"}},
		{"Electric bill", "Utilities", "Carol", 64.17, []string{"Alice", "Carol"}},
	}

	for _, e := range seedExpenses {
		splits := make([]services.SplitInput, len(e.owedBy))
		for i, name := range e.owedBy {
			splits[i] = services.SplitInput{OwedByMemberID: members[name].ID}
		}
		result, err := allocation.Allocate(services.AllocationInput{
			TotalAmount:  e.total,
			SharedAmount: e.total,
			Splits:       splits,
		}, cur)
		if err != nil {
			log.Fatalf("Failed to allocate seed expense %q: %v", e.description, err)
		}

		expense := &models.Expense{
			ID:             uuid.New().String(),
			GroupID:        group.ID,
			Description:    e.description,
			CategoryID:     categories[e.category].ID,
			PaidByMemberID: members[e.paidBy].ID,
			TotalAmount:    e.total,
			SharedAmount:   result.AdjustedSharedAmount,
			Date:           time.Now().AddDate(0, 0, -7),
		}
		if err := expenseRepo.Create(ctx, expense); err != nil {
			log.Fatalf("Failed to seed expense %q: %v", e.description, err)
		}

		for _, r := range result.Splits {
			split := &models.Split{
				ID:              uuid.New().String(),
				ExpenseID:       expense.ID,
				GroupID:         group.ID,
				OwedByMemberID:  r.OwedByMemberID,
				PaidByMemberID:  expense.PaidByMemberID,
				CategoryID:      expense.CategoryID,
				AllocatedAmount: r.AllocatedAmount,
				Date:            expense.Date,
			}
			if err := expenseRepo.CreateSplit(ctx, split); err != nil {
				log.Fatalf("Failed to seed split: %v", err)
			}
		}
	}
	log.Printf("Seeded %d expenses", len(seedExpenses))

	log.Println("Database seeding completed successfully.")
}

func clearDatabase(ctx context.Context, db *database.DB) error {
	tables := []string{
		"history_line_items",
		"history",
		"splits",
		"expenses",
		"memorized_splits",
		"memorized",
		"categories",
		"members",
		"groups",
	}
	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
