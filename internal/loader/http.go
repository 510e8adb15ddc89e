package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/models"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxResponseBytes   = 32 << 20
)

// ErrResponseTooLarge is returned when a task response exceeds the size limit.
var ErrResponseTooLarge = errors.New("task response too large")

// HTTPLoader fetches a JSON array of task records from a URL.
type HTTPLoader struct {
	URL    string
	Client *http.Client
	// MaxBytes caps the response body; 0 means 32 MiB.
	MaxBytes int64
}

// NewHTTPLoader returns a loader for url with a bounded client timeout.
func NewHTTPLoader(url string) *HTTPLoader {
	return &HTTPLoader{
		URL:    url,
		Client: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Load performs one GET. Non-2xx responses and bodies that are not a task
// array are returned as errors.
func (l *HTTPLoader) Load(ctx context.Context) ([]models.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid task source %q: %w", l.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch tasks: %s returned %s", l.URL, resp.Status)
	}

	limit := l.MaxBytes
	if limit <= 0 {
		limit = maxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read task response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s sent more than %d bytes", ErrResponseTooLarge, l.URL, limit)
	}

	tasks, err := config.DecodeTaskRecords(data, config.FormatJSON)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
