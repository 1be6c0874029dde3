// Package covers caches remote book cover images into the library's
// covers directory. One fetch policy serves every surface: bounded
// redirect following, bounded retry of connection errors with a fixed
// backoff, and no partial file left behind on failure.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// ErrTooManyRedirects is returned when a redirect chain exceeds the
// fetcher's limit.
var ErrTooManyRedirects = errors.New("too many redirects")

// Fetcher downloads cover images. The zero value is not usable;
// construct with NewFetcher and adjust fields before first use.
type Fetcher struct {
	// Timeout bounds each individual request.
	Timeout time.Duration
	// Retries is how many times a failed connection is retried.
	Retries int
	// Backoff is the fixed pause between retries.
	Backoff time.Duration
	// MaxRedirects caps the redirect chain per download.
	MaxRedirects int

	client *http.Client
}

// NewFetcher returns a Fetcher with the default policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Timeout:      30 * time.Second,
		Retries:      3,
		Backoff:      time.Second,
		MaxRedirects: 5,
	}
}

// httpClient returns a client that reports redirects instead of
// following them, so the redirect budget stays visible in Download.
func (f *Fetcher) httpClient() *http.Client {
	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return f.client
}

// Download fetches rawURL into dest. Redirects are followed up to
// MaxRedirects; connection-level failures (including timeouts) are
// retried up to Retries times with Backoff between attempts. A non-2xx,
// non-redirect response is terminal. On any failure no file is left at
// dest.
func (f *Fetcher) Download(ctx context.Context, rawURL, dest string) error {
	target := rawURL
	redirects := f.MaxRedirects
	attempts := f.Retries

	for {
		resp, err := f.get(ctx, target)
		if err != nil {
			if attempts > 0 {
				attempts--
				select {
				case <-time.After(f.Backoff):
				case <-ctx.Done():
					return ctx.Err()
				}
				continue
			}
			return fmt.Errorf("fetching %s: %w", rawURL, err)
		}

		switch {
		case resp.StatusCode >= 300 && resp.StatusCode < 400:
			loc := resp.Header.Get("Location")
			_ = resp.Body.Close()
			if loc == "" {
				return fmt.Errorf("fetching %s: redirect without location", target)
			}
			if redirects == 0 {
				return fmt.Errorf("fetching %s: %w", rawURL, ErrTooManyRedirects)
			}
			redirects--
			next, err := resolveLocation(target, loc)
			if err != nil {
				return err
			}
			target = next
			continue

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := writeFile(dest, resp.Body)
			_ = resp.Body.Close()
			return err

		default:
			_ = resp.Body.Close()
			return fmt.Errorf("fetching %s: HTTP %d", target, resp.StatusCode)
		}
	}
}

func (f *Fetcher) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return f.httpClient().Do(req)
}

// resolveLocation resolves a possibly-relative redirect target.
func resolveLocation(base, loc string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", base, err)
	}
	l, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parsing redirect %q: %w", loc, err)
	}
	return b.ResolveReference(l).String(), nil
}

// writeFile streams r into dest via a temp file, renaming only on full
// success so a truncated image never lands at the destination.
func writeFile(dest string, r io.Reader) error {
	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating cover file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing cover: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("closing cover file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes a cached cover file. Deleting a file that does not
// exist is not an error.
func Delete(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
