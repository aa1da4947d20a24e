package errors

import "sort"

// Registered error codes.
const (
	CodeNoRouteMatch    = "N001"
	CodeNoNotFound      = "N002"
	CodeUncaught        = "N003"
	CodeDeserialize     = "N004"
	CodeBackend         = "N005"
	CodeConfigInvalid   = "N010"
	CodeConfigNotFound  = "N011"
	CodeInvalidFrame    = "N020"
	CodeConnectionClose = "N021"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (N001-N002)
	// ============================================

	CodeNoRouteMatch: {
		Category: CategoryRouting,
		Message:  "No route matches path",
		Detail:   "No registered pattern matched the requested path. The not-found handler is used when one is registered.",
	},
	CodeNoNotFound: {
		Category: CategoryRouting,
		Message:  "404 Not Found",
		Detail:   "No route matched and no not-found handler is registered, so nothing was rendered.",
	},

	// ============================================
	// Runtime Errors (N003)
	// ============================================

	CodeUncaught: {
		Category: CategoryRuntime,
		Message:  "Uncaught fault",
		Detail:   "A fault escaped every handler and was caught by the shell's error boundary.",
	},

	// ============================================
	// Storage Errors (N004-N005)
	// ============================================

	CodeDeserialize: {
		Category: CategoryStorage,
		Message:  "Stored value could not be decoded",
		Detail:   "The text held under this key is not valid JSON for the requested value.",
	},
	CodeBackend: {
		Category: CategoryStorage,
		Message:  "Storage backend failure",
		Detail:   "The key/value backend returned an error.",
	},

	// ============================================
	// Config Errors (N010-N011)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "navshell.json contains an invalid value.",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "navshell.json was not found in the given directory.",
	},

	// ============================================
	// Protocol Errors (N020-N021)
	// ============================================

	CodeInvalidFrame: {
		Category: CategoryProtocol,
		Message:  "Invalid bridge frame",
		Detail:   "The browser sent a frame that could not be decoded.",
	},
	CodeConnectionClose: {
		Category: CategoryProtocol,
		Message:  "Bridge connection closed",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
