// Package mediaapi talks to the backend media endpoints: metadata lookup,
// thumbnails, streams and the public media listing.
package mediaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/btmxh/mediaview/internal/media"
)

type tokenKey struct{}

// WithToken attaches a bearer token that is forwarded on every request made
// with the returned context. The token is never inspected.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type Options struct {
	// BaseURL is where the server reaches the backend.
	BaseURL string
	// PublicURL is where the browser reaches the backend. Empty means
	// same-origin relative URLs.
	PublicURL string
	// Timeout bounds each request; zero means no timeout.
	Timeout time.Duration
}

type Client struct {
	baseURL   string
	publicURL string
	httpCli   *http.Client
}

func NewClient(opts Options) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
		httpCli:   &http.Client{Timeout: opts.Timeout},
	}
}

type mediaResponse struct {
	Media media.Descriptor `json:"media"`
}

type mediaListResponse struct {
	Media []media.Descriptor `json:"media"`
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, media.JoinURL(c.baseURL, path), nil)
	if err != nil {
		return nil, err
	}

	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpCli.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}

	return nil
}

// Lookup fetches the metadata of one media item.
func (c *Client) Lookup(ctx context.Context, id string) (media.Descriptor, error) {
	var body mediaResponse
	if err := c.getJSON(ctx, media.MetadataPath(id), &body); err != nil {
		return media.Descriptor{}, fmt.Errorf("%w: %w", media.ErrMetadataLookupFailed, err)
	}

	return body.Media.WithFallback(media.Descriptor{Id: id}), nil
}

// Thumbnail checks that a thumbnail exists and returns the URL the browser
// should load it from.
func (c *Client) Thumbnail(ctx context.Context, id string) (string, error) {
	resp, err := c.get(ctx, media.ThumbnailPath(id))
	if err != nil {
		return "", fmt.Errorf("%w: %w", media.ErrThumbnailUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", media.ErrThumbnailUnavailable, resp.StatusCode)
	}

	return c.browserURL(resp.Request.URL), nil
}

func (c *Client) StreamURL(id string) string {
	return media.JoinURL(c.publicURL, media.StreamPath(id))
}

// List returns the publicly visible media items.
func (c *Client) List(ctx context.Context) ([]media.Descriptor, error) {
	var body mediaListResponse
	if err := c.getJSON(ctx, media.PublicListPath, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", media.ErrMetadataLookupFailed, err)
	}

	items := body.Media[:0]
	for _, item := range body.Media {
		if item.Id == "" {
			slog.Warn("Skipping media list entry without an ID", "entry", item)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// browserURL rewrites URLs on the backend host to the public base, leaving
// redirects to other hosts untouched.
func (c *Client) browserURL(u *url.URL) string {
	base, err := url.Parse(c.baseURL)
	if err != nil || base.Host != u.Host {
		return u.String()
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return media.JoinURL(c.publicURL, path)
}
