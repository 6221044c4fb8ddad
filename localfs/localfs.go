// Package localfs provides filesystem access used by dimension probes.
package localfs

import (
	"io"
	"os"
)

// FS answers questions about local files using the operating system. Zero
// value is ready to use.
type FS struct{}

func New() FS {
	return FS{}
}

// Exists reports whether anything (file or directory) is present at path.
func (FS) Exists(path string) bool {
	if len(path) == 0 {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (FS) IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (FS) IsReadable(path string) bool {
	return readable(path)
}

// Size returns file size in bytes, 0 when it cannot be determined.
func (FS) Size(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (FS) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (FS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
