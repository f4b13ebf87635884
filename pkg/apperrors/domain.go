package apperrors

import (
	"net/http"
)

// Factories for wrapping repository errors.

// ErrNotFound converts a repository "record not found" into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation is the generic 400 factory for disallowed operations.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"A user with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Shop scoping ---

// ErrNoShop is returned when an operation requires the caller to be
// attached to a shop and they are not.
var ErrNoShop = New(
	CodeInvalidOperation,
	"shop",
	"User is not associated with a shop",
	http.StatusBadRequest,
)

// --- Subscriptions & payments ---

var ErrPlanNotFound = New(
	CodeNotFound,
	"subscription",
	"Plan not found",
	http.StatusNotFound,
)

var ErrTrialAlreadyUsed = New(
	CodeInvalidOperation,
	"subscription",
	"Trial already used",
	http.StatusBadRequest,
)

var ErrTrialUnavailable = New(
	CodeInvalidOperation,
	"subscription",
	"Failed to start trial",
	http.StatusBadRequest,
)

// ErrSubscriptionExpired is the paywall signal. The message is what the
// paywall middleware surfaces to clients as "detail".
var ErrSubscriptionExpired = New(
	CodeSubscriptionExpired,
	"subscription",
	"Your subscription has expired or payment required.",
	http.StatusForbidden,
)

var ErrInvalidPaymentSignature = New(
	CodeValidationFailed,
	"payment",
	"Invalid payment signature",
	http.StatusBadRequest,
)

var ErrPaymentNotFound = New(
	CodeNotFound,
	"payment",
	"Payment not found",
	http.StatusNotFound,
)

var ErrPaymentGateway = New(
	CodeExternalServiceError,
	"payment",
	"Payment provider error",
	http.StatusServiceUnavailable,
)

// --- Catalog / sales ---

var ErrProductNotFound = New(
	CodeNotFound,
	"catalog",
	"Product not found",
	http.StatusNotFound,
)

var ErrInvoiceNotFound = New(
	CodeNotFound,
	"sales",
	"Invoice not found",
	http.StatusNotFound,
)

var ErrEmptyInvoice = New(
	CodeValidationFailed,
	"sales",
	"Invoice must contain at least one item",
	http.StatusBadRequest,
)
