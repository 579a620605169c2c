// Package identity defines the records that flow through a reconciliation run:
// the claims extracted from the roster, the profiles returned by the directory,
// and the reconciled records written to storage.
package identity
