//go:build windows

package localfs

import "os"

// No access(2) on Windows - try to actually open it.
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
