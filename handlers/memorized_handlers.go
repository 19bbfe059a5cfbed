package handlers

import (
	"net/http"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type MemorizedRequest struct {
	GroupID            string         `json:"group_id" validate:"omitempty,uuid"`
	Description        string         `json:"description" validate:"required,min=3,max=100"`
	CategoryID         string         `json:"category_id" validate:"required,uuid"`
	PaidByMemberID     string         `json:"paid_by_member_id" validate:"required,uuid"`
	TotalAmount        float64        `json:"total_amount" validate:"required,gt=0"`
	SharedAmount       float64        `json:"shared_amount" validate:"gte=0"`
	ProportionalAmount float64        `json:"proportional_amount" validate:"gte=0"`
	SplitByPercentage  bool           `json:"split_by_percentage"`
	Splits             []SplitRequest `json:"splits" validate:"required,min=1,dive"`
}

func (h *Handlers) GetMemorized(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	records, err := h.memorizedService.GetByGroupID(r.Context(), groupID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

func (h *Handlers) GetMemorizedByID(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	memorizedID := chi.URLParam(r, "memorizedID")
	memorized, err := h.memorizedService.GetByID(r.Context(), memorizedID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, memorized)
}

func (h *Handlers) CreateMemorized(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	var req MemorizedRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if _, err := uuid.Parse(req.GroupID); err != nil {
		handleError(w, apperrors.InvalidRequest("Invalid Group ID format. Must be a valid UUID."))
		return
	}

	memorized := memorizedFromRequest(&req)

	memorized, err = h.memorizedService.Create(r.Context(), userID, memorized, splitInputs(req.Splits))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, memorized)
}

func (h *Handlers) UpdateMemorized(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	memorizedID := chi.URLParam(r, "memorizedID")
	if _, err := uuid.Parse(memorizedID); err != nil {
		handleError(w, apperrors.InvalidRequest("Invalid template ID format."))
		return
	}

	var req MemorizedRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	memorized := memorizedFromRequest(&req)

	memorized, err = h.memorizedService.Update(r.Context(), memorizedID, userID, memorized, splitInputs(req.Splits))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, memorized)
}

func (h *Handlers) DeleteMemorized(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	memorizedID := chi.URLParam(r, "memorizedID")
	if err := h.memorizedService.Delete(r.Context(), memorizedID, userID); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Memorized expense deleted successfully"})
}

func memorizedFromRequest(req *MemorizedRequest) *models.Memorized {
	return &models.Memorized{
		GroupID:            req.GroupID,
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		PaidByMemberID:     req.PaidByMemberID,
		TotalAmount:        req.TotalAmount,
		SharedAmount:       req.SharedAmount,
		ProportionalAmount: req.ProportionalAmount,
		SplitByPercentage:  req.SplitByPercentage,
	}
}
