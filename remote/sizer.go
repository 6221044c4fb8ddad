package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"imgdim/config"
	"imgdim/utils/images"
)

// Sizer determines remote raster image dimensions from its leading bytes.
type Sizer struct {
	client   *Client
	maxBytes int64
}

func NewSizer(client *Client, cfg *config.RemoteConfig) *Sizer {
	return &Sizer{client: client, maxBytes: cfg.MaxHeaderBytes}
}

// SizeOf requests leading bytes of the image, up to the configured limit, and
// sniffs its header. Body is consumed only until the frame header is decoded,
// servers ignoring Range are fine, no more than the limit is read anyway.
func (s *Sizer) SizeOf(ctx context.Context, url string) (int, int, error) {
	header := http.Header{}
	header.Set("Range", fmt.Sprintf("bytes=0-%d", s.maxBytes-1))

	resp, err := s.client.do(ctx, url, header)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, 0, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	size, err := images.DecodeSize(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return 0, 0, fmt.Errorf("unable to size %s: %w", url, err)
	}
	return size.Width, size.Height, nil
}
