package handlers

import (
	"net/http"
	"time"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
	"pipsplit-backend/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SplitRequest struct {
	OwedByMemberID string  `json:"owed_by_member_id" validate:"omitempty,uuid"`
	AssignedAmount float64 `json:"assigned_amount" validate:"gte=0"`
	Percentage     float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type ExpenseRequest struct {
	GroupID            string         `json:"group_id" validate:"omitempty,uuid"`
	Description        string         `json:"description" validate:"required,min=3,max=100"`
	CategoryID         string         `json:"category_id" validate:"required,uuid"`
	PaidByMemberID     string         `json:"paid_by_member_id" validate:"required,uuid"`
	TotalAmount        float64        `json:"total_amount" validate:"required,gt=0"`
	SharedAmount       float64        `json:"shared_amount" validate:"gte=0"`
	ProportionalAmount float64        `json:"proportional_amount" validate:"gte=0"`
	SplitByPercentage  bool           `json:"split_by_percentage"`
	Date               *time.Time     `json:"date,omitempty"`
	Splits             []SplitRequest `json:"splits" validate:"required,min=1,dive"`
}

func (h *Handlers) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	if groupID == "" {
		handleError(w, apperrors.MissingRequiredField("Group ID"))
		return
	}

	expenses, err := h.expenseService.GetByGroupID(r.Context(), groupID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	if expenseID == "" {
		handleError(w, apperrors.MissingRequiredField("Expense ID"))
		return
	}

	expense, err := h.expenseService.GetByID(r.Context(), expenseID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	var req ExpenseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if _, err := uuid.Parse(req.GroupID); err != nil {
		handleError(w, apperrors.InvalidRequest("Invalid Group ID format. Must be a valid UUID."))
		return
	}

	expense := expenseFromRequest(&req)

	expense, err = h.expenseService.Create(r.Context(), userID, expense, splitInputs(req.Splits))
	if err != nil {
		handleError(w, err)
		return
	}

	zap.L().Info("Expense created",
		zap.String("expense_id", expense.ID),
		zap.String("group_id", expense.GroupID),
		zap.String("user_id", userID),
		zap.Float64("amount", expense.TotalAmount))

	respondJSON(w, http.StatusCreated, expense)
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	if _, err := uuid.Parse(expenseID); err != nil {
		handleError(w, apperrors.InvalidRequest("Invalid Expense ID format."))
		return
	}

	var req ExpenseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	expense := expenseFromRequest(&req)

	expense, err = h.expenseService.Update(r.Context(), expenseID, userID, expense, splitInputs(req.Splits))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	if expenseID == "" {
		handleError(w, apperrors.MissingRequiredField("Expense ID"))
		return
	}

	if err := h.expenseService.Delete(r.Context(), expenseID, userID); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func expenseFromRequest(req *ExpenseRequest) *models.Expense {
	expense := &models.Expense{
		GroupID:            req.GroupID,
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		PaidByMemberID:     req.PaidByMemberID,
		TotalAmount:        req.TotalAmount,
		SharedAmount:       req.SharedAmount,
		ProportionalAmount: req.ProportionalAmount,
		SplitByPercentage:  req.SplitByPercentage,
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}
	return expense
}

func splitInputs(reqs []SplitRequest) []services.SplitInput {
	splits := make([]services.SplitInput, len(reqs))
	for i, r := range reqs {
		splits[i] = services.SplitInput{
			OwedByMemberID: r.OwedByMemberID,
			AssignedAmount: r.AssignedAmount,
			Percentage:     r.Percentage,
		}
	}
	return splits
}
