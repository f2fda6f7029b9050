package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E039)
	// ============================================

	"E001": {
		Category:   CategoryRuntime,
		Message:    "store accessor used outside its provider",
		Detail:     "The accessor was called from a scope that has no enclosing provider for this store. The ambient channel only carries a value for descendants of the providing scope.",
		Suggestion: "Mount the store with Provide on an ancestor scope, or thread the store handle explicitly.",
		DocURL:     "https://statekit.dev/docs/errors/E001",
	},
	"E002": {
		Category:   CategoryRuntime,
		Message:    "unsupported action dispatched",
		Detail:     "The reducer has no transition for this action variant. State is unchanged and no observers were notified.",
		Suggestion: "Extend the reducer's type switch with a case for the new action, and add a bound convenience for it on the accessor handle.",
		DocURL:     "https://statekit.dev/docs/errors/E002",
	},
	"E003": {
		Category:   CategoryRuntime,
		Message:    "re-entrant dispatch",
		Detail:     "Dispatch was called from inside an observer of the same store. Observers run synchronously in the dispatch pass, so dispatching again would recurse.",
		Suggestion: "Move the follow-up dispatch out of the observer, e.g. onto a fresh goroutine.",
		DocURL:     "https://statekit.dev/docs/errors/E003",
	},

	// ============================================
	// Protocol Errors (E040-E059)
	// ============================================

	"E040": {
		Category:   CategoryProtocol,
		Message:    "unknown frame type",
		Detail:     "The sync peer sent a frame whose type is not part of the protocol.",
		Suggestion: "Check for a client/server version mismatch.",
		DocURL:     "https://statekit.dev/docs/errors/E040",
	},
	"E041": {
		Category:   CategoryProtocol,
		Message:    "malformed frame",
		Detail:     "The frame payload could not be decoded.",
		DocURL:     "https://statekit.dev/docs/errors/E041",
	},

	// ============================================
	// Storage Errors (E060-E079)
	// ============================================

	"E060": {
		Category:   CategoryStorage,
		Message:    "snapshot not found",
		Detail:     "No snapshot exists under the requested key.",
		DocURL:     "https://statekit.dev/docs/errors/E060",
	},
	"E061": {
		Category:   CategoryStorage,
		Message:    "snapshot store closed",
		Detail:     "The snapshot store was used after Close.",
		DocURL:     "https://statekit.dev/docs/errors/E061",
	},

	// ============================================
	// Config Errors (E080-E099)
	// ============================================

	"E080": {
		Category:   CategoryConfig,
		Message:    "invalid server configuration",
		DocURL:     "https://statekit.dev/docs/errors/E080",
	},
}

// Lookup returns the template for a code, if registered.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
