// Package version carries build-time version metadata, injected via
// -ldflags at build time the way the teacher's own pkg/version is.
package version

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	version     string
	buildCommit string
	buildTime   string
)

// GetVersion returns the semver-compatible version number.
func GetVersion() string {
	return version
}

// GetVersionString returns the standard "<binary> <version> (<commit>), built <time>" header.
func GetVersionString() string {
	return fmt.Sprintf("%s %v (%s), built %v", filepath.Base(os.Args[0]), version, buildCommit, buildTime)
}

// GetServerBannerVersion returns the SSH banner string this server
// identifies itself as.
func GetServerBannerVersion() string {
	return "chartered-gitd-" + version
}
