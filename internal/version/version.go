// ABOUTME: Version constants for the project
// ABOUTME: Reported by the CLI and examples
package version

const (
	// Version is the release version.
	Version = "0.1.0"

	// Product is the user-facing product name.
	Product = "sio-play"
)
