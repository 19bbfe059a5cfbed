package handlers

import (
	"net/http"

	"pipsplit-backend/currency"
	"pipsplit-backend/services"
)

type AllocationPreviewRequest struct {
	CurrencyCode       string         `json:"currency_code" validate:"omitempty,len=3"`
	TotalAmount        float64        `json:"total_amount" validate:"required,gt=0"`
	SharedAmount       float64        `json:"shared_amount" validate:"gte=0"`
	ProportionalAmount float64        `json:"proportional_amount" validate:"gte=0"`
	SplitByPercentage  bool           `json:"split_by_percentage"`
	Splits             []SplitRequest `json:"splits" validate:"required,min=1,dive"`
}

// PreviewAllocation runs the allocation engine without persisting
// anything, so clients can show per-member amounts as the form is edited.
func (h *Handlers) PreviewAllocation(w http.ResponseWriter, r *http.Request) {
	if _, err := getUserID(r); err != nil {
		handleError(w, err)
		return
	}

	var req AllocationPreviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	cur := currency.LookupOrDefault(req.CurrencyCode)

	result, err := h.allocationService.Allocate(services.AllocationInput{
		TotalAmount:        req.TotalAmount,
		SharedAmount:       req.SharedAmount,
		ProportionalAmount: req.ProportionalAmount,
		SplitByPercentage:  req.SplitByPercentage,
		Splits:             splitInputs(req.Splits),
	}, cur)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currency.Supported())
}
