// Package errors provides statekit's coded error registry.
//
// Every documented failure mode has a stable code (E001, E002, ...) with a
// registered message, detail, and fix suggestion. Public packages wrap these
// in their own sentinel errors; the codes appear in error strings and in the
// CLI's formatted output.
package errors
