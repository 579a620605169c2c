// Package emoji provides symbol constants for CLI output.
package emoji

import "github.com/jkobl1/berlin-is-twitter-data/pkg/identity"

// Symbol constants for CLI output.
const (
	// Success marks a record the directory confirmed as is.
	Success = "✓"

	// Error marks a record the directory could not confirm.
	Error = "✗"

	// Warning marks a lookup that could not be performed.
	Warning = "!"

	// Changed marks a record whose handle or id was updated.
	Changed = "~"

	// Added marks a record whose numeric id was learned.
	Added = "+"

	// Unknown represents an unrecognized status.
	Unknown = "?"
)

// ForStatus returns the symbol shown next to a reconciliation status.
func ForStatus(s identity.Status) string {
	switch s {
	case identity.StatusUnchanged:
		return Success
	case identity.StatusHandleUpdated:
		return Changed
	case identity.StatusIDAdded, identity.StatusIDAddedHandleUpdated:
		return Added
	case identity.StatusIDNotFound, identity.StatusHandleNotFound:
		return Error
	case identity.StatusLookupFailed:
		return Warning
	default:
		return Unknown
	}
}
