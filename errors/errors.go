package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

const (
	CodeUnauthorized   ErrorCode = "AUTH_001"
	CodeTokenExpired   ErrorCode = "AUTH_002"
	CodeTokenInvalid   ErrorCode = "AUTH_003"
	CodeNotGroupMember ErrorCode = "AUTH_004"

	CodeInvalidRequest       ErrorCode = "VALIDATION_001"
	CodeMissingRequiredField ErrorCode = "VALIDATION_002"
	CodeInvalidFieldFormat   ErrorCode = "VALIDATION_003"
	CodeInvalidAmount        ErrorCode = "VALIDATION_004"
	CodeIncompleteAllocation ErrorCode = "VALIDATION_005"
	CodeInvalidPercentages   ErrorCode = "VALIDATION_006"
	CodeUnsupportedCurrency  ErrorCode = "VALIDATION_007"

	CodeNotFound          ErrorCode = "NOT_FOUND_001"
	CodeGroupNotFound     ErrorCode = "NOT_FOUND_002"
	CodeMemberNotFound    ErrorCode = "NOT_FOUND_003"
	CodeCategoryNotFound  ErrorCode = "NOT_FOUND_004"
	CodeExpenseNotFound   ErrorCode = "NOT_FOUND_005"
	CodeMemorizedNotFound ErrorCode = "NOT_FOUND_006"
	CodeHistoryNotFound   ErrorCode = "NOT_FOUND_007"

	CodeConflict       ErrorCode = "CONFLICT_001"
	CodeDuplicateEntry ErrorCode = "CONFLICT_002"
	CodeSplitPaid      ErrorCode = "CONFLICT_003"

	CodeBusinessError           ErrorCode = "BUSINESS_001"
	CodeNothingToSettle         ErrorCode = "BUSINESS_002"
	CodeCannotSettleToSelf      ErrorCode = "BUSINESS_003"
	CodeMemberHasUnpaidSplits   ErrorCode = "BUSINESS_004"
	CodeCategoryHasUnpaidSplits ErrorCode = "BUSINESS_005"

	CodeDatabaseError       ErrorCode = "DATABASE_001"
	CodeDatabaseTransaction ErrorCode = "DATABASE_002"

	CodeInternalError ErrorCode = "INTERNAL_001"
)

type ErrorType int

const (
	ErrorTypeUnauthorized ErrorType = iota
	ErrorTypeForbidden
	ErrorTypeBadRequest
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnprocessable
	ErrorTypeInternal
	ErrorTypeServiceUnavailable
)

type AppError struct {
	Type    ErrorType `json:"-"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeTokenExpired,
		Message: "Your session has expired. Please log in again.",
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeTokenInvalid,
		Message: "Invalid authentication token.",
	}
}

func NotGroupMember() *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Code:    CodeNotGroupMember,
		Message: "You are not a member of this group.",
	}
}

func InvalidRequest(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

func MissingRequiredField(fieldName string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required.", fieldName),
	}
}

func InvalidFieldFormat(fieldName, expectedFormat string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeInvalidFieldFormat,
		Message: fmt.Sprintf("Invalid format for %s.", fieldName),
		Details: fmt.Sprintf("Expected format: %s", expectedFormat),
	}
}

func InvalidAmount(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeInvalidAmount,
		Message: message,
	}
}

// IncompleteAllocation is the submission guard from the allocation engine:
// the allocated amounts do not sum back to the expense total, so the
// expense must not be persisted.
func IncompleteAllocation(allocatedTotal, expectedTotal float64) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeIncompleteAllocation,
		Message: fmt.Sprintf("Allocated amounts (%.2f) do not sum to the expense total (%.2f).", allocatedTotal, expectedTotal),
	}
}

func InvalidPercentages(percentageTotal float64) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeInvalidPercentages,
		Message: fmt.Sprintf("Split percentages sum to %.2f, not 100.", percentageTotal),
	}
}

func UnsupportedCurrency(code string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeUnsupportedCurrency,
		Message: fmt.Sprintf("Currency '%s' is not supported.", code),
	}
}

func NotFound(resourceType string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found.", resourceType),
	}
}

func GroupNotFound() *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeGroupNotFound,
		Message: "Group not found.",
	}
}

func MemberNotFound() *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeMemberNotFound,
		Message: "Member not found.",
	}
}

func CategoryNotFound() *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeCategoryNotFound,
		Message: "Category not found.",
	}
}

func ExpenseNotFound() *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeExpenseNotFound,
		Message: "Expense not found.",
	}
}

func MemorizedNotFound() *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeMemorizedNotFound,
		Message: "Memorized expense not found.",
	}
}

func HistoryNotFound() *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeHistoryNotFound,
		Message: "Settlement record not found.",
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeConflict,
		Message: message,
	}
}

func DuplicateEntry(resourceType string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeDuplicateEntry,
		Message: fmt.Sprintf("%s already exists.", resourceType),
	}
}

// SplitAlreadyPaid fails a settlement that raced another one: at least one
// split in the batch was already marked paid, so the whole settlement rolls
// back rather than silently skipping it.
func SplitAlreadyPaid() *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeSplitPaid,
		Message: "One or more splits were already settled.",
		Details: "The balance changed while you were paying. Refresh the summary and try again.",
	}
}

func NothingToSettle() *AppError {
	return &AppError{
		Type:    ErrorTypeUnprocessable,
		Code:    CodeNothingToSettle,
		Message: "There are no unpaid splits between these members.",
	}
}

func CannotSettleToSelf() *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Code:    CodeCannotSettleToSelf,
		Message: "Cannot settle a debt with yourself.",
	}
}

func MemberHasUnpaidSplits(displayName string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnprocessable,
		Code:    CodeMemberHasUnpaidSplits,
		Message: fmt.Sprintf("Cannot deactivate %s while they have unpaid splits.", displayName),
		Details: "Settle the member's outstanding balances first.",
	}
}

func CategoryHasUnpaidSplits(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnprocessable,
		Code:    CodeCategoryHasUnpaidSplits,
		Message: fmt.Sprintf("Cannot deactivate category '%s' while it has unpaid splits.", name),
	}
}

func DatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    CodeDatabaseError,
		Message: "A database error occurred. Please try again.",
		Details: operation,
		Err:     err,
	}
}

func TransactionError(operation string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    CodeDatabaseTransaction,
		Message: "The operation could not be committed. Nothing was changed.",
		Details: operation,
		Err:     err,
	}
}

func InternalError(err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred. Please try again.",
		Err:     err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func GetHTTPStatus(errType ErrorType) int {
	switch errType {
	case ErrorTypeUnauthorized:
		return 401
	case ErrorTypeForbidden:
		return 403
	case ErrorTypeBadRequest:
		return 400
	case ErrorTypeNotFound:
		return 404
	case ErrorTypeConflict:
		return 409
	case ErrorTypeUnprocessable:
		return 422
	case ErrorTypeServiceUnavailable:
		return 503
	default:
		return 500
	}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "no rows") || strings.Contains(errStr, "not found")
}

func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint")
}
