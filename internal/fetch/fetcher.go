package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// DefaultBaseURL is the puzzle site.
const DefaultBaseURL = "https://adventofcode.com"

// InputFile is the name of the downloaded input inside a package directory.
const InputFile = "input.txt"

// Response is the raw result of an input request.
type Response struct {
	Status int
	Body   []byte
}

// Fetcher downloads puzzle input for a fixed year.
type Fetcher struct {
	client  *http.Client
	baseURL string
	year    int
	log     zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithBaseURL points the fetcher at a different site root.
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Fetcher) { f.log = log }
}

// NewFetcher builds a Fetcher for year. The default client is a zero
// http.Client, so only the transport's default timeouts apply.
func NewFetcher(year int, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		baseURL: DefaultBaseURL,
		year:    year,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InputURL returns <base>/<year>/day/<day>/input.
func (f *Fetcher) InputURL(day int) string {
	return fmt.Sprintf("%s/%d/day/%d/input", f.baseURL, f.year, day)
}

// Fetch issues a single GET for the day's input, authenticated with the
// session cookie.
//
// The status code is not inspected: whatever body the server returns,
// including an error page, is handed back to the caller. Only transport
// failures are errors, and they wrap model.ErrNetwork.
func (f *Fetcher) Fetch(ctx context.Context, day int, token string) (*Response, error) {
	url := f.InputURL(day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Cookie", "session="+token)

	f.log.Debug().Str("url", url).Msg("fetching puzzle input")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", model.ErrNetwork, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %v", model.ErrNetwork, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Warn().
			Int("status", resp.StatusCode).
			Str("url", url).
			Msg("puzzle site returned a non-success status; saving body as-is")
	} else {
		f.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("puzzle input received")
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// SaveInput writes body verbatim to <dir>/input.txt and returns the path.
func SaveInput(dir string, body []byte) (string, error) {
	path := filepath.Join(dir, InputFile)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
