// Package constants provides shared constants used throughout handlesync.
// This includes timeouts, service limits, file permissions and default
// endpoints that should be consistent across the application.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the
	// roster provider and the directory service
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup work after a failed run
	ShutdownTimeout = 5 * time.Second
)

// Limit constants
const (
	// MaxLookupBatchSize is the most keys the directory accepts in one lookup request
	MaxLookupBatchSize = 100

	// DefaultLookupBatchSize is the batch window used when none is configured
	DefaultLookupBatchSize = MaxLookupBatchSize
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Logging constants
const (
	// LogRotationSizeMB is the maximum size of a log file before rotation
	LogRotationSizeMB = 10

	// LogRotationAgeDays is the maximum age of log files before deletion
	LogRotationAgeDays = 7

	// LogRotationBackups is the maximum number of old log files to retain
	LogRotationBackups = 5
)

// Default endpoints and storage locations
const (
	// DefaultAPIURL is the base URL of the directory service
	DefaultAPIURL = "https://api.twitter.com"

	// DefaultRosterURL is the countries index of the roster provider
	DefaultRosterURL = "https://raw.githubusercontent.com/everypolitician/everypolitician-data/master/countries.json"

	// DefaultDatabasePath is where the sqlite sink writes, following the morph.io convention
	DefaultDatabasePath = "data.sqlite"

	// DefaultTable is the table name used by the database sinks
	DefaultTable = "swdata"

	// DefaultOutputFile is where the yaml sink writes
	DefaultOutputFile = "records.yaml"

	// IdentifierScheme is the roster identifier scheme holding numeric ids
	IdentifierScheme = "twitter"
)
