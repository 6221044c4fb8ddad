// Package misc holds build time program identification.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// Set by the linker: -ldflags "-X imgdim/misc.version=... -X imgdim/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns the name of the running executable without extension.
func GetAppName() string {
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns the commit program was built from, falling back to VCS
// information embedded by the go tool.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
