package errors

// Error code constants surfaced in the "message"/"errors" envelope.
// Format: CATEGORY_SPECIFIC_DETAIL; clients map these to display text.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenReused        = "AUTH_TOKEN_REUSED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthPhoneAlreadyExists = "AUTH_PHONE_EXISTS"
	AuthAccountDisabled    = "AUTH_ACCOUNT_DISABLED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput     = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID        = "VALIDATION_INVALID_ID"
	ValidationPasswordMismatch = "VALIDATION_PASSWORD_MISMATCH"
	ValidationInvalidPhone     = "VALIDATION_INVALID_PHONE"
	ValidationInvalidRole      = "VALIDATION_INVALID_ROLE"
	ValidationInvalidPrice     = "VALIDATION_INVALID_PRICE"
	ValidationRequired         = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	CatalogCategoryNotFound  = "CATALOG_CATEGORY_NOT_FOUND"
	CatalogCategoryCycle     = "CATALOG_CATEGORY_CYCLE"
	CatalogCategoryInUse     = "CATALOG_CATEGORY_IN_USE"
	CatalogDuplicateSlug     = "CATALOG_DUPLICATE_SLUG"
	CatalogBrandNotFound     = "CATALOG_BRAND_NOT_FOUND"
	CatalogProductNotFound   = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogVariantNotFound   = "CATALOG_VARIANT_NOT_FOUND"
	CatalogImageNotFound     = "CATALOG_IMAGE_NOT_FOUND"
	CatalogDiscountTooHigh   = "CATALOG_DISCOUNT_NOT_BELOW_PRICE"
	CatalogInsufficientStock = "CATALOG_INSUFFICIENT_STOCK"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
