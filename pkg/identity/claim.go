package identity

import (
	"strings"
)

// Claim is one person's one identity assertion taken from the roster.
// Handle and NumericID are nil when the roster does not know them.
type Claim struct {
	PersonID  string  `json:"person_id" yaml:"person_id"`
	Handle    *string `json:"handle" yaml:"handle"`
	NumericID *string `json:"numeric_id" yaml:"numeric_id"`
}

// NewClaim builds a claim, treating empty strings as unknown.
// A handle that fails ValidHandle after normalization is dropped as well.
func NewClaim(personID, handle, numericID string) Claim {
	c := Claim{
		PersonID:  personID,
		NumericID: nonEmpty(strings.TrimSpace(numericID)),
	}
	if h := NormalizeHandle(handle); ValidHandle(h) {
		c.Handle = &h
	}
	return c
}

// HasID reports whether the claim carries a numeric id.
func (c Claim) HasID() bool {
	return c.NumericID != nil
}

// HasHandle reports whether the claim carries a handle.
func (c Claim) HasHandle() bool {
	return c.Handle != nil
}

// IsEmpty reports whether the claim carries neither a handle nor an id.
func (c Claim) IsEmpty() bool {
	return !c.HasID() && !c.HasHandle()
}

// HandleValue returns the handle or "" when unknown.
func (c Claim) HandleValue() string {
	if c.Handle == nil {
		return ""
	}
	return *c.Handle
}

// IDValue returns the numeric id or "" when unknown.
func (c Claim) IDValue() string {
	if c.NumericID == nil {
		return ""
	}
	return *c.NumericID
}

// Profile is the directory's authoritative view of one account.
type Profile struct {
	NumericID string `json:"numeric_id" yaml:"numeric_id"`
	Handle    string `json:"handle" yaml:"handle"`
}

// Record is the reconciled outcome for one claim.
// Records are created once during reconciliation and never modified.
type Record struct {
	PersonID       string  `json:"person_id" yaml:"person_id"`
	NumericID      *string `json:"numeric_id" yaml:"numeric_id"`
	CurrentHandle  *string `json:"current_handle" yaml:"current_handle"`
	PreviousHandle *string `json:"previous_handle" yaml:"previous_handle"`
	Status         Status  `json:"status" yaml:"status"`
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
