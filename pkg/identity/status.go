package identity

import "fmt"

// Status classifies a reconciled record against the directory response.
type Status string

// Status values, in the order they are reported.
const (
	// StatusUnchanged: the id resolved and the stored handle is current.
	StatusUnchanged Status = "unchanged"
	// StatusHandleUpdated: the id resolved to a different handle.
	StatusHandleUpdated Status = "handle-updated"
	// StatusIDNotFound: the id no longer resolves (deleted or suspended account).
	StatusIDNotFound Status = "id-not-found"
	// StatusHandleNotFound: no account answers to the stored handle.
	StatusHandleNotFound Status = "handle-not-found"
	// StatusIDAdded: the handle resolved and its numeric id was learned.
	StatusIDAdded Status = "id-added"
	// StatusIDAddedHandleUpdated: the handle resolved case-insensitively to a
	// differently spelled handle, and its numeric id was learned.
	StatusIDAddedHandleUpdated Status = "id-added-handle-updated"
	// StatusLookupFailed: the directory could not be asked about this record.
	StatusLookupFailed Status = "lookup-failed"
)

// Statuses lists every status in reporting order.
var Statuses = []Status{
	StatusUnchanged,
	StatusHandleUpdated,
	StatusIDNotFound,
	StatusHandleNotFound,
	StatusIDAdded,
	StatusIDAddedHandleUpdated,
	StatusLookupFailed,
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsChange reports whether the record differs from what the roster holds.
func (s Status) IsChange() bool {
	return s != StatusUnchanged && s != StatusLookupFailed
}

// ParseStatus converts a stored status string back to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}
