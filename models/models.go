package models

import (
	"time"
)

type Group struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	CurrencyCode string     `json:"currency_code" db:"currency_code"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	Members      []Member   `json:"members,omitempty"`
	Categories   []Category `json:"categories,omitempty"`
}

type Member struct {
	ID          string    `json:"id" db:"id"`
	GroupID     string    `json:"group_id" db:"group_id"`
	UserID      *string   `json:"user_id,omitempty" db:"user_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Email       string    `json:"email,omitempty" db:"email"`
	Active      bool      `json:"active" db:"active"`
	GroupAdmin  bool      `json:"group_admin" db:"group_admin"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Category struct {
	ID        string    `json:"id" db:"id"`
	GroupID   string    `json:"group_id" db:"group_id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Expense is one spending event. The sum of its splits' allocated amounts
// always equals TotalAmount to the currency's minor unit; the allocation
// engine enforces this before anything is persisted.
type Expense struct {
	ID                 string    `json:"id" db:"id"`
	GroupID            string    `json:"group_id" db:"group_id"`
	Description        string    `json:"description" db:"description"`
	CategoryID         string    `json:"category_id" db:"category_id"`
	PaidByMemberID     string    `json:"paid_by_member_id" db:"paid_by_member_id"`
	TotalAmount        float64   `json:"total_amount" db:"total_amount"`
	SharedAmount       float64   `json:"shared_amount" db:"shared_amount"`
	ProportionalAmount float64   `json:"proportional_amount" db:"proportional_amount"`
	SplitByPercentage  bool      `json:"split_by_percentage" db:"split_by_percentage"`
	Date               time.Time `json:"date" db:"date"`
	Paid               bool      `json:"paid" db:"paid"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
	Splits             []Split   `json:"splits,omitempty"`
}

// Split is one member's share of one expense. PaidByMemberID, CategoryID
// and Date are copied from the parent expense at write time so that the
// netting engine can work from splits alone. AllocatedAmount is the
// allocation engine's output and the only figure netting ever reads.
type Split struct {
	ID              string    `json:"id" db:"id"`
	ExpenseID       string    `json:"expense_id" db:"expense_id"`
	GroupID         string    `json:"group_id" db:"group_id"`
	OwedByMemberID  string    `json:"owed_by_member_id" db:"owed_by_member_id"`
	PaidByMemberID  string    `json:"paid_by_member_id" db:"paid_by_member_id"`
	CategoryID      string    `json:"category_id" db:"category_id"`
	AssignedAmount  float64   `json:"assigned_amount" db:"assigned_amount"`
	Percentage      float64   `json:"percentage" db:"percentage"`
	AllocatedAmount float64   `json:"allocated_amount" db:"allocated_amount"`
	Paid            bool      `json:"paid" db:"paid"`
	Date            time.Time `json:"date" db:"date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AmountDue is a computed pairwise net debt. It is never persisted; the
// summary view derives it fresh from the unpaid splits on every read.
type AmountDue struct {
	OwedByMemberID string  `json:"owed_by_member_id"`
	OwedToMemberID string  `json:"owed_to_member_id"`
	Amount         float64 `json:"amount"`
	CategoryID     string  `json:"category_id,omitempty"`
	CategoryName   string  `json:"category_name,omitempty"`
}

// History is the immutable settlement record written when a set of splits
// between two members is marked paid.
type History struct {
	ID             string            `json:"id" db:"id"`
	GroupID        string            `json:"group_id" db:"group_id"`
	PaidByMemberID string            `json:"paid_by_member_id" db:"paid_by_member_id"`
	PaidToMemberID string            `json:"paid_to_member_id" db:"paid_to_member_id"`
	Date           time.Time         `json:"date" db:"date"`
	TotalPaid      float64           `json:"total_paid" db:"total_paid"`
	LineItems      []HistoryLineItem `json:"line_items"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
}

type HistoryLineItem struct {
	Category string  `json:"category" db:"category"`
	Amount   float64 `json:"amount" db:"amount"`
}

// Memorized is a reusable expense template. It carries the same allocation
// inputs as an expense but no paid state and no date.
type Memorized struct {
	ID                 string           `json:"id" db:"id"`
	GroupID            string           `json:"group_id" db:"group_id"`
	Description        string           `json:"description" db:"description"`
	CategoryID         string           `json:"category_id" db:"category_id"`
	PaidByMemberID     string           `json:"paid_by_member_id" db:"paid_by_member_id"`
	TotalAmount        float64          `json:"total_amount" db:"total_amount"`
	SharedAmount       float64          `json:"shared_amount" db:"shared_amount"`
	ProportionalAmount float64          `json:"proportional_amount" db:"proportional_amount"`
	SplitByPercentage  bool             `json:"split_by_percentage" db:"split_by_percentage"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
	Splits             []MemorizedSplit `json:"splits,omitempty"`
}

type MemorizedSplit struct {
	ID              string  `json:"id" db:"id"`
	MemorizedID     string  `json:"memorized_id" db:"memorized_id"`
	OwedByMemberID  string  `json:"owed_by_member_id" db:"owed_by_member_id"`
	AssignedAmount  float64 `json:"assigned_amount" db:"assigned_amount"`
	Percentage      float64 `json:"percentage" db:"percentage"`
	AllocatedAmount float64 `json:"allocated_amount" db:"allocated_amount"`
}
