package resolve

import (
	"context"
	"io"
)

// FileSystem is local file access used by probes.
//
//go:generate mockgen -source=capabilities.go -destination=mocks/mock_capabilities.go -package=mocks
type FileSystem interface {
	// Exists reports whether file or directory is present at path.
	Exists(path string) bool
	IsDir(path string) bool
	IsReadable(path string) bool
	// Size returns file size in bytes.
	Size(path string) int64
	Open(path string) (io.ReadCloser, error)
	ReadFile(path string) ([]byte, error)
}

// RemoteSizer detects raster image size over the network reading as few
// bytes of the image as possible.
type RemoteSizer interface {
	SizeOf(ctx context.Context, url string) (width, height int, err error)
}

// HTTPClient retrieves remote documents. Implementations are expected to
// skip certificate verification and send no headers beyond the required
// ones.
type HTTPClient interface {
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}
