package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Pricing error codes
const (
	// ErrCodePricingBandNotFound is used when a band id is not part of the ladder
	ErrCodePricingBandNotFound = "ERR_PRICING_BAND_NOT_FOUND"
	// ErrCodePricingBandNotDeletable is used when deleting Range 1 or the terminal band
	ErrCodePricingBandNotDeletable = "ERR_PRICING_BAND_NOT_DELETABLE"
	// ErrCodePricingOpenEnd is used when clearing the end of a band that is not last
	ErrCodePricingOpenEnd = "ERR_PRICING_OPEN_END_NOT_ALLOWED"
	// ErrCodePricingComparedLocked is used when toggling a locked compared-at checkbox
	ErrCodePricingComparedLocked = "ERR_PRICING_COMPARED_PRICE_LOCKED"
	// ErrCodePricingNoPromotion is used when Range 2 has no band to promote
	ErrCodePricingNoPromotion = "ERR_PRICING_NO_PROMOTION_CANDIDATE"
	// ErrCodePricingLadderInvalid is used when saving a ladder with range errors
	ErrCodePricingLadderInvalid = "ERR_PRICING_LADDER_INVALID"
	// ErrCodePricingNoMatchingBand is used when no band covers a cost
	ErrCodePricingNoMatchingBand = "ERR_PRICING_NO_MATCHING_BAND"
	// ErrCodePricingNegativeBound is used for negative range bounds
	ErrCodePricingNegativeBound = "ERR_PRICING_NEGATIVE_BOUND"
	// ErrCodePricingInvalidFormula is used for unknown operators, negative operands or formula kinds
	ErrCodePricingInvalidFormula = "ERR_PRICING_INVALID_FORMULA"
	// ErrCodePricingInvalidNumber is used when a bound or cost is not a number
	ErrCodePricingInvalidNumber = "ERR_PRICING_INVALID_NUMBER"
	// ErrCodePricingInvalidCost is used for negative product costs
	ErrCodePricingInvalidCost = "ERR_PRICING_INVALID_COST"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Pricing errors
	ErrCodePricingBandNotFound:     http.StatusNotFound,
	ErrCodePricingBandNotDeletable: http.StatusUnprocessableEntity,
	ErrCodePricingOpenEnd:          http.StatusUnprocessableEntity,
	ErrCodePricingComparedLocked:   http.StatusUnprocessableEntity,
	ErrCodePricingNoPromotion:      http.StatusUnprocessableEntity,
	ErrCodePricingLadderInvalid:    http.StatusUnprocessableEntity,
	ErrCodePricingNoMatchingBand:   http.StatusUnprocessableEntity,
	ErrCodePricingNegativeBound:    http.StatusBadRequest,
	ErrCodePricingInvalidFormula:   http.StatusBadRequest,
	ErrCodePricingInvalidNumber:    http.StatusBadRequest,
	ErrCodePricingInvalidCost:      http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"BAND_NOT_FOUND":         ErrCodePricingBandNotFound,
	"BAND_NOT_DELETABLE":     ErrCodePricingBandNotDeletable,
	"OPEN_END_NOT_ALLOWED":   ErrCodePricingOpenEnd,
	"COMPARED_PRICE_LOCKED":  ErrCodePricingComparedLocked,
	"NO_PROMOTION_CANDIDATE": ErrCodePricingNoPromotion,
	"LADDER_INVALID":         ErrCodePricingLadderInvalid,
	"NO_MATCHING_BAND":       ErrCodePricingNoMatchingBand,
	"NEGATIVE_BOUND":         ErrCodePricingNegativeBound,
	"INVALID_OPERATOR":       ErrCodePricingInvalidFormula,
	"INVALID_OPERAND":        ErrCodePricingInvalidFormula,
	"INVALID_FORMULA_KIND":   ErrCodePricingInvalidFormula,
	"INVALID_NUMBER":         ErrCodePricingInvalidNumber,
	"INVALID_COST":           ErrCodePricingInvalidCost,
	"INVALID_MIN_GAP":        ErrCodeInvalidInput,
	"INVALID_CURRENCY":       ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
