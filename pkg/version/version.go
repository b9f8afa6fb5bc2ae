// Package version exposes treepatch build metadata injected at link time.
package version

// Build metadata, overridden via -ldflags "-X ...".
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the Git commit the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
