package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "Invalid wire message",
		Detail:   "The client sent a websocket message that could not be decoded.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The client sent a message type the session does not handle.",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid storefront.json",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A STOREFRONT_* environment variable could not be parsed.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No storefront.json was found at the given location.",
	},

	// ============================================
	// Routing Errors (E200-E219)
	// ============================================

	"E201": {
		Category: CategoryRouting,
		Message:  "Route table incomplete",
		Detail:   "Every route, including the NotFound route, needs a page factory.",
	},
	"E202": {
		Category: CategoryRouting,
		Message:  "Page load failed",
		Detail:   "The page factory for the route returned an error.",
	},
	"E203": {
		Category: CategoryRouting,
		Message:  "Page mount failed",
		Detail:   "The page returned an error or panicked while mounting.",
	},
	"E204": {
		Category: CategoryRouting,
		Message:  "Before-navigation hook failed",
		Detail:   "A before-navigation hook returned an error or panicked.",
	},
	"E205": {
		Category: CategoryRouting,
		Message:  "Redirect limit exceeded",
		Detail:   "Before-navigation hooks redirected too many times in a row.",
	},
	"E206": {
		Category: CategoryRouting,
		Message:  "NotFound page failed",
		Detail:   "The NotFound page must always load and mount.",
	},

	// ============================================
	// Shop Errors (E300-E319)
	// ============================================

	"E301": {
		Category: CategoryShop,
		Message:  "Unknown form",
		Detail:   "The mounted page does not handle this form.",
	},
	"E302": {
		Category: CategoryShop,
		Message:  "Request rejected",
		Detail:   "The backend rejected the request.",
	},
	"E303": {
		Category: CategoryShop,
		Message:  "Page template failed",
		Detail:   "A page template could not be executed.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
