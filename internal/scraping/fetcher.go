package scraping

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/config"
)

// maxBodySize caps a single listing page or API response
const maxBodySize = 8 << 20

// StatusError is returned for a response outside the 2xx range
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// errPermanent marks failures that repeating the request cannot fix
var errPermanent = errors.New("permanent failure")

// retryable reports whether a failed attempt may succeed when repeated:
// transport errors and 5xx responses are, 4xx responses are not.
func retryable(err error) bool {
	if errors.Is(err, errPermanent) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}

type FetcherOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	UserAgent   string
	InsecureTLS bool
}

// OptionsFromConfig maps the scraping section of the configuration
func OptionsFromConfig(cfg *config.Config) FetcherOptions {
	return FetcherOptions{
		Timeout:     time.Duration(cfg.Scraping.Timeout) * time.Second,
		MaxAttempts: cfg.Scraping.MaxAttempts,
		RetryDelay:  time.Duration(cfg.Scraping.RetryDelay) * time.Millisecond,
		UserAgent:   cfg.Scraping.UserAgent,
		InsecureTLS: cfg.Scraping.InsecureTLS,
	}
}

// Fetcher performs HTTP requests against listing sites, retrying failed
// attempts with a doubling delay.
type Fetcher struct {
	logger *logrus.Logger
	client *http.Client
	opts   FetcherOptions
}

func NewFetcher(logger *logrus.Logger, opts FetcherOptions) *Fetcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		logger: logger,
		client: &http.Client{Timeout: opts.Timeout, Transport: transport},
		opts:   opts,
	}
}

// Get fetches an HTML page
func (f *Fetcher) Get(ctx context.Context, pageURL string) ([]byte, error) {
	return f.do(ctx, "GET "+pageURL, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
		return req, nil
	})
}

// PostForm submits a form the way the listing sites' own AJAX widgets do
func (f *Fetcher) PostForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	encoded := form.Encode()
	return f.do(ctx, "POST "+endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		return req, nil
	})
}

func (f *Fetcher) do(ctx context.Context, operation string, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error
	delay := f.opts.RetryDelay

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		body, err := f.once(build)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, fmt.Errorf("%s failed: %w", operation, err)
		}
		if attempt == f.opts.MaxAttempts {
			break
		}
		f.logger.WithError(err).WithFields(logrus.Fields{
			"operation": operation,
			"attempt":   attempt,
			"retry_in":  delay.String(),
		}).Warn("Request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("%s failed after %d attempts: %w", operation, f.opts.MaxAttempts, lastErr)
}

func (f *Fetcher) once(build func() (*http.Request, error)) ([]byte, error) {
	req, err := build()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", errPermanent, err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
