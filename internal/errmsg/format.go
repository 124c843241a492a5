// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Setup
	OpConfigLoad   Op = "load configuration"
	OpLibraryOpen  Op = "open song library"
	OpLibraryLoad  Op = "load songs"
	OpLibraryScan  Op = "scan song library"
	OpCacheBuild   Op = "build song cache"
	OpCatalogQuery Op = "list categories"

	// Command line
	OpParseArgs Op = "parse arguments"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context, such as the
// attribute or path involved.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
