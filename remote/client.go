// Package remote provides network capabilities used to size images which
// are not available locally.
package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"imgdim/config"
)

// ErrTooLarge is returned when response body exceeds configured limit.
var ErrTooLarge = errors.New("response body is too large")

// Client performs plain GET requests. Certificates are not verified,
// redirects are not followed and no headers besides required ones are sent.
type Client struct {
	hc      *http.Client
	maxBody int64
	log     *zap.Logger
}

func NewClient(cfg *config.RemoteConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		hc: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:              http.ProxyFromEnvironment,
				TLSClientConfig:    &tls.Config{InsecureSkipVerify: true},
				DisableCompression: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxBody: cfg.MaxDocumentBytes,
		log:     log,
	}
}

// Get fetches url and returns response status and body.
func (c *Client) Get(ctx context.Context, url string) (int, []byte, error) {
	resp, err := c.do(ctx, url, nil)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("unable to read response from %s: %w", url, err)
	}
	if int64(len(body)) > c.maxBody {
		return resp.StatusCode, nil, fmt.Errorf("%s: %w (limit %d bytes)", url, ErrTooLarge, c.maxBody)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) do(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	if !hasHTTPScheme(url) {
		return nil, fmt.Errorf("unsupported url scheme: %s", url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request for %s: %w", url, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	// empty value prevents default Go User-Agent from being sent
	req.Header.Set("User-Agent", "")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	c.log.Debug("Remote request", zap.String("url", url), zap.Int("status", resp.StatusCode))
	return resp, nil
}

func hasHTTPScheme(url string) bool {
	scheme, _, ok := strings.Cut(url, "://")
	return ok && (strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https"))
}
