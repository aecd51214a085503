// Package fetch opens the corpus sources read by a pipeline run.
// A source is "-" for standard input, an http(s) URL, or a local file path.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxSourceBytes bounds how much of a single corpus source is read into memory.
const MaxSourceBytes = 200 * 1024 * 1024

// RequestTimeout bounds a whole HTTP download of a corpus export.
const RequestTimeout = 2 * time.Minute

// limitedReadCloser fails reads once more than N bytes have been consumed
type limitedReadCloser struct {
	io.ReadCloser
	N      int64
	source string
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("source %q exceeds size limit of %d bytes", l.source, MaxSourceBytes)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	},
}

// Open returns a size-limited reader for source. The caller closes it.
func Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, fmt.Errorf("empty source")
	case source == "-":
		// stdin stays open when the reader is closed
		return &limitedReadCloser{ReadCloser: io.NopCloser(os.Stdin), N: MaxSourceBytes, source: "stdin"}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return openURL(ctx, source)
	default:
		return openFile(source)
	}
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "reviewdtm/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d", url, resp.StatusCode)
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, err := strconv.ParseInt(cl, 10, 64); err == nil && size > MaxSourceBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("URL %q is too large (%d bytes > %d bytes limit)", url, size, MaxSourceBytes)
		}
	}

	return &limitedReadCloser{ReadCloser: resp.Body, N: MaxSourceBytes, source: url}, nil
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	if info.Size() > MaxSourceBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)", path, info.Size(), MaxSourceBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return f, nil
}
