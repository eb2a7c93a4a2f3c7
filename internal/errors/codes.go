package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to user-facing messages

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized     = "AUTH_UNAUTHORIZED"      // login required
	AuthTokenExpired     = "AUTH_TOKEN_EXPIRED"     // token expired
	AuthTokenInvalid     = "AUTH_TOKEN_INVALID"     // malformed or forged token
	AuthOTPInvalid       = "AUTH_OTP_INVALID"       // wrong passcode
	AuthOTPExpired       = "AUTH_OTP_EXPIRED"       // passcode expired
	AuthOTPNotRequested  = "AUTH_OTP_NOT_REQUESTED" // no passcode pending for this email
	AuthMobileExists     = "AUTH_MOBILE_EXISTS"     // mobile already taken
	AuthAccountNotFound  = "AUTH_ACCOUNT_NOT_FOUND" // no account for this email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // no access rights
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // admin only endpoint
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // resource owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // format mismatch
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // out of range
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"       // resource missing
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"  // duplicate
	ResourceConflict      = "RESOURCE_CONFLICT"        // state conflict

	// ==================== Menu (MENU_) ====================
	MenuItemNotFound     = "MENU_ITEM_NOT_FOUND"     // menu item missing
	MenuDuplicateItem    = "MENU_DUPLICATE_ITEM"     // same name + restaurant exists
	MenuInvalidCategory  = "MENU_INVALID_CATEGORY"   // unknown category
	MenuItemUnavailable  = "MENU_ITEM_UNAVAILABLE"   // dish marked unavailable

	// ==================== Cart (CART_) ====================
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"  // no such line in cart
	CartFull          = "CART_FULL"            // 20 distinct dishes reached
	CartQuantityLimit = "CART_QUANTITY_LIMIT"  // 50 units per dish reached

	// ==================== Order (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"        // order missing
	OrderEmptyItems     = "ORDER_EMPTY_ITEMS"      // order without lines
	OrderTotalMismatch  = "ORDER_TOTAL_MISMATCH"   // client total disagrees with server
	OrderInvalidStatus  = "ORDER_INVALID_STATUS"   // unknown lifecycle state
	OrderTerminalStatus = "ORDER_TERMINAL_STATUS"  // order already delivered or cancelled

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND" // address missing

	// ==================== User (USER_) ====================
	UserNotFound      = "USER_NOT_FOUND"       // user missing
	UserSelfDemotion  = "USER_SELF_DEMOTION"   // admin cannot remove own role
	UserSelfDeletion  = "USER_SELF_DELETION"   // admin cannot delete own account

	// ==================== Rate limiting (RATE_) ====================
	RateLimited    = "RATE_LIMITED"     // too many requests
	RateOTPResend  = "RATE_OTP_RESEND"  // resend requested inside the cooldown window

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // not an allowed image type
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // file exceeds size limit
	UploadFailed          = "UPLOAD_FAILED"            // storage write failed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server fault
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB fault
	InternalMailError     = "INTERNAL_MAIL_ERROR"     // mail delivery fault
)
