package rules

import "errors"

type Code string

const (
	CodeForbidden              Code = "FORBIDDEN"
	CodeSelfPurchase           Code = "SELF_PURCHASE_NOT_ALLOWED"
	CodeListingNotAvailable    Code = "LISTING_NOT_AVAILABLE"
	CodeInsufficientStock      Code = "INSUFFICIENT_STOCK"
	CodeOrderNotEligible       Code = "ORDER_NOT_ELIGIBLE"
	CodeDownloadLimit          Code = "DIGITAL_DOWNLOAD_LIMIT"
	CodeDownloadExpired        Code = "DIGITAL_DOWNLOAD_EXPIRED"
	CodeTagLimit               Code = "TAG_LIMIT"
	CodePersonalizationInvalid Code = "PERSONALIZATION_INVALID"
	CodeValidation             Code = "VALIDATION_ERROR"
	CodeConflict               Code = "CONFLICT"
	CodeNotFound               Code = "NOT_FOUND"
	CodeCurrencyMismatch       Code = "CURRENCY_MISMATCH"
)

// Error is the only error type this package returns. Code is stable and
// machine-readable; Message is safe to show to the end user; Details carries
// structured context such as available stock or per-field errors.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) withDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// AsRuleError unwraps err into a *Error if there is one in the chain.
func AsRuleError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
