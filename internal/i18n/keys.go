// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthMissingFields      = "auth.missing_fields"

	// Products
	KeyProductsSaved    = "product.saved"
	KeyProductNotFound  = "product.not_found"
	KeyProductsSaveFail = "product.save_failed"

	// Categories
	KeyCategoryAdded      = "category.added"
	KeyCategoryDeleted    = "category.deleted"
	KeyCategoryNotFound   = "category.not_found"
	KeyCategorySaved      = "category.saved"
	KeyCategoryNoneGiven  = "category.none_given"
	KeyCategoryInvalid    = "category.invalid"
	KeyCategorySaveFailed = "category.save_failed"

	// Orders / payments
	KeyOrderNotFound      = "order.not_found"
	KeyOrderCreated       = "order.created"
	KeyOrderInvalidItems  = "order.invalid_items"
	KeyPaymentGatewayFail = "payment.gateway_failed"
	KeyPaymentTimeout     = "payment.timeout"
	KeyPaymentUnreachable = "payment.unreachable"

	// Stock
	KeyStockUpdated     = "stock.updated"
	KeyStockManualCheck = "stock.manual_check"

	// Cache
	KeyCacheCleared   = "cache.cleared"
	KeyCacheRefreshed = "cache.refreshed"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"
)
