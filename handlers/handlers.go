package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/middleware"
	"pipsplit-backend/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

var validate = validator.New()

type Handlers struct {
	groupService      services.GroupService
	memberService     services.MemberService
	categoryService   services.CategoryService
	expenseService    services.ExpenseService
	memorizedService  services.MemorizedService
	summaryService    services.SummaryService
	settlementService services.SettlementService
	historyService    services.HistoryService
	allocationService services.AllocationService
}

func NewHandlers(
	groupService services.GroupService,
	memberService services.MemberService,
	categoryService services.CategoryService,
	expenseService services.ExpenseService,
	memorizedService services.MemorizedService,
	summaryService services.SummaryService,
	settlementService services.SettlementService,
	historyService services.HistoryService,
	allocationService services.AllocationService,
) *Handlers {
	return &Handlers{
		groupService:      groupService,
		memberService:     memberService,
		categoryService:   categoryService,
		expenseService:    expenseService,
		memorizedService:  memorizedService,
		summaryService:    summaryService,
		settlementService: settlementService,
		historyService:    historyService,
		allocationService: allocationService,
	}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/currencies", h.GetCurrencies)
	r.Post("/allocate", h.PreviewAllocation)

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.GetGroups)
		r.Post("/", h.CreateGroup)
		r.Get("/{groupID}", h.GetGroup)
		r.Put("/{groupID}", h.UpdateGroup)
		r.Delete("/{groupID}", h.DeleteGroup)

		r.Get("/{groupID}/members", h.GetMembers)
		r.Post("/{groupID}/members", h.CreateMember)
		r.Put("/{groupID}/members/{memberID}", h.UpdateMember)
		r.Delete("/{groupID}/members/{memberID}", h.DeactivateMember)

		r.Get("/{groupID}/categories", h.GetCategories)
		r.Post("/{groupID}/categories", h.CreateCategory)
		r.Put("/{groupID}/categories/{categoryID}", h.UpdateCategory)
		r.Delete("/{groupID}/categories/{categoryID}", h.DeactivateCategory)

		r.Get("/{groupID}/expenses", h.GetExpenses)
		r.Get("/{groupID}/memorized", h.GetMemorized)

		r.Get("/{groupID}/summary/{memberID}", h.GetAmountsDue)
		r.Get("/{groupID}/summary/{owedByMemberID}/{owedToMemberID}/categories", h.GetCategoryBreakdown)

		r.Post("/{groupID}/settle", h.Settle)
		r.Get("/{groupID}/history", h.GetHistory)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Post("/", h.CreateExpense)
		r.Get("/{expenseID}", h.GetExpense)
		r.Put("/{expenseID}", h.UpdateExpense)
		r.Delete("/{expenseID}", h.DeleteExpense)
	})

	r.Route("/memorized", func(r chi.Router) {
		r.Post("/", h.CreateMemorized)
		r.Get("/{memorizedID}", h.GetMemorizedByID)
		r.Put("/{memorizedID}", h.UpdateMemorized)
		r.Delete("/{memorizedID}", h.DeleteMemorized)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/{historyID}", h.GetHistoryRecord)
		r.Delete("/{historyID}", h.DeleteHistoryRecord)
	})
}

// decodeAndValidate unmarshals the request body and runs the struct's
// validate tags. Validation failures surface as field-level errors so
// clients can highlight the offending input.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidRequest("Invalid request body. Please provide valid JSON.")
	}
	if err := validate.Struct(dst); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.InvalidFieldFormat(fe.Field(), fe.Tag())
		}
		return apperrors.InvalidRequest("Request validation failed.")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("Failed to encode JSON response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	if status >= 500 {
		zap.L().Error("Server Error", zap.Int("status", status), zap.String("message", message))
	}
	respondJSON(w, status, ErrorResponse{Error: message})
}

func handleError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		status := apperrors.GetHTTPStatus(appErr.Type)

		if status >= 500 {
			zap.L().Error("App Error (Internal)",
				zap.String("code", string(appErr.Code)),
				zap.Error(appErr.Err))
		} else {
			zap.L().Debug("App Error (Client)",
				zap.String("code", string(appErr.Code)),
				zap.String("message", appErr.Message))
		}

		respondJSON(w, status, ErrorResponse{
			Error:   appErr.Message,
			Code:    string(appErr.Code),
			Details: appErr.Details,
		})
		return
	}

	zap.L().Error("Non-AppError returned (bug)",
		zap.Error(err),
		zap.String("error_type", fmt.Sprintf("%T", err)))

	respondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "An unexpected error occurred. Please try again later.",
		Code:  string(apperrors.CodeInternalError),
	})
}

func getUserID(r *http.Request) (string, error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return "", apperrors.Unauthorized("User ID not found in authentication context")
	}
	return userID, nil
}
