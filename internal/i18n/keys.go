// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Users
	KeyUserNotFound = "user.not_found"
	KeyUserUpdated  = "user.updated"

	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	// Categories
	KeyCategoryCreated   = "category.created"
	KeyCategoryUpdated   = "category.updated"
	KeyCategoryDeleted   = "category.deleted"
	KeyCategoryNotFound  = "category.not_found"
	KeyCategoryNameTaken = "category.name_taken"
	KeyCategoryInUse     = "category.in_use"

	// Barcode lookup
	KeyBarcodeFound    = "barcode.found"
	KeyBarcodeNotFound = "barcode.not_found"
	KeyBarcodeFailed   = "barcode.lookup_failed"

	// Inventory
	KeyInventoryUpdated = "inventory.updated"

	// Orders
	KeyOrderUpdated       = "order.updated"
	KeyOrderNotFound      = "order.not_found"
	KeyDeliveryAssigned   = "order.delivery_assigned"
	KeyAgentNotFound      = "agent.not_found"
	KeyAgentCreated       = "agent.created"
	KeyAgentUpdated       = "agent.updated"

	// Stores
	KeyStoreNotFound = "store.not_found"
	KeyStoreUpdated  = "store.updated"

	// Files
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
