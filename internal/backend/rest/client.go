// Package rest implements the service.Service interface against the task
// REST backend (GET/POST /tasks, GET/PUT/DELETE /tasks/{id},
// GET /tasks/pending, GET /tasks/completed).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/api/googleapi"

	"tasklist/internal/log"
	"tasklist/internal/service"
)

const (
	// TasksPath is the task collection endpoint.
	TasksPath = "/tasks"

	// RequestIDHeader carries a per-request ULID for log correlation.
	RequestIDHeader = "X-Request-Id"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8080.
	BaseURL string
	// HTTPClient defaults to a plain http.Client.
	HTTPClient *http.Client
	// Timeout bounds each request. Zero disables it.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *Config) defaults() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base url %q: missing host", c.BaseURL)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  log.Logger
}

// Compile-time verification that *Client implements service.Service.
var _ service.Service = (*Client)(nil)

// New creates a new REST client.
func New(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    cfg.HTTPClient,
		timeout: cfg.Timeout,
		logger:  cfg.Logger.WithValues(log.Kv{"component": "rest"}),
	}, nil
}

// ListPath returns the collection endpoint for a filter.
func ListPath(filter service.Filter) string {
	switch filter {
	case service.FilterPending:
		return TasksPath + "/pending"
	case service.FilterCompleted:
		return TasksPath + "/completed"
	}
	return TasksPath
}

// TaskPath returns the endpoint of a single task.
func TaskPath(id service.ID) string {
	return TasksPath + "/" + url.PathEscape(id.String())
}

// ListTasks returns the tasks selected by filter in backend order.
func (c *Client) ListTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: %d", service.ErrInvalidFilter, int(filter))
	}

	body, err := c.do(ctx, http.MethodGet, ListPath(filter), nil)
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := decode(body, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// GetTask returns the full record for id.
func (c *Client) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, TaskPath(id), nil)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := decode(body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask posts a create payload. The id is never sent.
func (c *Client) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	task.ID = ""
	body, err := c.do(ctx, http.MethodPost, TasksPath, task)
	if err != nil {
		return service.Task{}, err
	}
	return c.echo(body, task), nil
}

// UpdateTask replaces the whole record identified by task.ID.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	if task.ID.IsZero() {
		return service.Task{}, fmt.Errorf("task id is required")
	}
	body, err := c.do(ctx, http.MethodPut, TaskPath(task.ID), task)
	if err != nil {
		return service.Task{}, err
	}
	return c.echo(body, task), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	_, err := c.do(ctx, http.MethodDelete, TaskPath(id), nil)
	return err
}

// echo decodes a mutation response. Success is decided by the status code
// alone, so an empty or unexpected body falls back to the sent record.
func (c *Client) echo(body []byte, sent service.Task) service.Task {
	if len(bytes.TrimSpace(body)) == 0 {
		return sent
	}
	var got service.Task
	if err := json.Unmarshal(body, &got); err != nil {
		c.logger.Warningf("ignoring undecodable mutation response: %v", err)
		return sent
	}
	return got
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	reqID := ulid.Make().String()
	req.Header.Set(RequestIDHeader, reqID)
	logger := c.logger.WithValues(log.Kv{"request_id": reqID})

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		logger.Debugf("%s %s failed: %v", method, path, err)
		return nil, wrapError(err)
	}
	defer googleapi.CloseBody(res)

	logger.Debugf("%s %s -> %d (%s)", method, path, res.StatusCode, time.Since(start))

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, statusError(err)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return body, nil
}

// decode parses a read response; malformed bodies are reported like any
// other failure.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	return nil
}

// statusError converts a googleapi.Error into a service.StatusError.
func statusError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &service.StatusError{
			Code: gerr.Code,
			Body: strings.TrimSpace(gerr.Body),
		}
	}
	return err
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
