package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a client-safe message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps store-level errors to client-safe codes and messages.
// Unique/FK/not-null violations are the store's backstop for races the
// service-level checks cannot win; they surface here as conflicts instead of
// leaking driver detail.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	// Unique constraint violation (postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
			return ErrorInfo{Code: ResourceConflict, Message: "The record is referenced by other data and cannot be deleted"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	// Not-null constraint violation (23502)
	if strings.Contains(errLower, "null value") && strings.Contains(errLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// Connection-level failures
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email address is already in use"}
	}
	if strings.Contains(errLower, "phone") {
		return ErrorInfo{Code: AuthPhoneAlreadyExists, Message: "Phone number is already in use"}
	}
	if strings.Contains(errLower, "slug") {
		return ErrorInfo{Code: CatalogDuplicateSlug, Message: "A record with the same slug already exists"}
	}
	if strings.Contains(errLower, "sku") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "SKU is already in use"}
	}
	if strings.Contains(errLower, "jti") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Token already registered"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "A record with the same unique value already exists"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "brand"):
		return "Brand not found"
	case strings.Contains(contextLower, "variant"):
		return "Product variant not found"
	case strings.Contains(contextLower, "image"):
		return "Product image not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "token"):
		return "Token not found"
	}
	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "register"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the record. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}

// ParseAndRespond parses the error and writes the uniform envelope
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: info.Message,
		Errors:  map[string]string{"code": info.Code},
	})
}
