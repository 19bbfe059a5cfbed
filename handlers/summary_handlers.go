package handlers

import (
	"net/http"
	"time"

	apperrors "pipsplit-backend/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SettleRequest struct {
	PaidByMemberID string `json:"paid_by_member_id" validate:"required,uuid"`
	PaidToMemberID string `json:"paid_to_member_id" validate:"required,uuid"`
}

// GetAmountsDue returns the pairwise net debts from the perspective of one
// member. Optional from/to query parameters (YYYY-MM-DD) restrict the
// computation to splits dated inside the range.
func (h *Handlers) GetAmountsDue(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	memberID := chi.URLParam(r, "memberID")

	from, to, err := parseDateRange(r)
	if err != nil {
		handleError(w, err)
		return
	}

	amountsDue, err := h.summaryService.AmountsDueFiltered(r.Context(), groupID, memberID, from, to, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, amountsDue)
}

func (h *Handlers) GetCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	owedByMemberID := chi.URLParam(r, "owedByMemberID")
	owedToMemberID := chi.URLParam(r, "owedToMemberID")

	breakdown, err := h.summaryService.CategoryBreakdown(r.Context(), groupID, owedByMemberID, owedToMemberID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}

func (h *Handlers) Settle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")

	var req SettleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	history, err := h.settlementService.Settle(r.Context(), groupID, req.PaidByMemberID, req.PaidToMemberID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	zap.L().Info("Settlement completed",
		zap.String("group_id", groupID),
		zap.String("history_id", history.ID),
		zap.String("user_id", userID))

	respondJSON(w, http.StatusCreated, history)
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	records, err := h.historyService.GetByGroupID(r.Context(), groupID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

func (h *Handlers) GetHistoryRecord(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	historyID := chi.URLParam(r, "historyID")
	history, err := h.historyService.GetByID(r.Context(), historyID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (h *Handlers) DeleteHistoryRecord(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	historyID := chi.URLParam(r, "historyID")
	if err := h.historyService.Delete(r.Context(), historyID, userID); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "History record deleted successfully"})
}

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, apperrors.InvalidFieldFormat("from", "YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, apperrors.InvalidFieldFormat("to", "YYYY-MM-DD")
		}
		// Inclusive upper bound: cover the whole day.
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, apperrors.InvalidRequest("'to' date must not precede 'from' date.")
	}
	return from, to, nil
}
