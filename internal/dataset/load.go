package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/mused/internal/utils"
	"github.com/avast/retry-go"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Options controls how a dataset source is fetched.
type Options struct {
	// HTTPTimeout bounds a single HTTP attempt. Zero means 30s.
	HTTPTimeout time.Duration
	// Attempts is the total number of fetch attempts. Values below 1 mean one attempt.
	Attempts int
	// RetryDelay is the base backoff between attempts.
	RetryDelay time.Duration
	// Progress draws a download bar on stderr when it is a terminal.
	Progress bool
	// Client overrides the HTTP client (tests).
	Client *http.Client
}

// DefaultOptions fetches once with a 30s timeout.
func DefaultOptions() Options {
	return Options{
		HTTPTimeout: 30 * time.Second,
		Attempts:    1,
		RetryDelay:  500 * time.Millisecond,
	}
}

// Load reads the dataset from an http(s) URL, a file:// URL, or a local path.
func Load(ctx context.Context, source string, opt Options) (*Table, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}
	if isRemote(source) {
		body, err := fetch(ctx, source, opt)
		if err != nil {
			return nil, err
		}
		return Parse(bytes.NewReader(body), source)
	}
	path := strings.TrimPrefix(source, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Parse(f, source)
}

func isRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func fetch(ctx context.Context, src string, opt Options) ([]byte, error) {
	client := opt.Client
	if client == nil {
		timeout := opt.HTTPTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	attempts := opt.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var body []byte
	err := retry.Do(
		func() error {
			b, err := get(ctx, client, src, opt.Progress)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(opt.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			// retry-go reports the final failure too; that one is returned, not retried.
			if int(n)+1 >= attempts {
				return
			}
			utils.Warnf("Dataset fetch attempt %d/%d failed: %v", n+1, attempts, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func get(ctx context.Context, client *http.Client, src string, progress bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &FetchError{URL: src, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if progress && utils.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription("Fetching dataset"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		w = io.MultiWriter(&buf, bar)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w", err)
	}
	utils.Infof("Fetched %s from %s", humanize.Bytes(uint64(n)), src)
	return buf.Bytes(), nil
}

// isRetryable limits retries to transient failures: 429/5xx and network errors.
func isRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Temporary()
	}
	var ne net.Error
	return errors.As(err, &ne)
}
