package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a one-line description suitable for a -version flag.
func String() string {
	return fmt.Sprintf("flatcombine %s (%s, built %s)", Version, GitSHA, BuildTime)
}
