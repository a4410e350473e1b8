// Package apiclient talks to the HOA REST collections: list, read, create,
// update, delete, plus file download and multipart upload.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Record is one server record as decoded JSON. Numbers are json.Number so
// amounts keep their exact text.
type Record map[string]any

// ID returns the server-assigned id of r as a string.
func (r Record) ID() (string, bool) {
	switch v := r["id"].(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, v != ""
	case float64:
		return fmt.Sprintf("%.0f", v), true
	case int:
		return fmt.Sprint(v), true
	case int64:
		return fmt.Sprint(v), true
	}
	return "", false
}

// APIError is a non-2xx response. Message is the server's "error" field and
// may be empty.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns the text to show for err, or fallback when the server sent
// none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// File is a downloaded attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLogger sets the logger used for request failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client is safe for concurrent use. It never retries.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New builds a client rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetLogger(c.log.Sugar())
	return c
}

// BaseURL returns the collection root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// List fetches every record of a collection in server order.
func (c *Client) List(ctx context.Context, path string) ([]Record, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	records := []Record{}
	if err := decode(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, path, id string) (Record, error) {
	return c.record(ctx, http.MethodGet, itemPath(path, id), nil)
}

// Create posts body as JSON and returns the created record.
func (c *Client) Create(ctx context.Context, path string, body any) (Record, error) {
	return c.record(ctx, http.MethodPost, path, body)
}

// Update puts body as JSON to path/id and returns the updated record.
func (c *Client) Update(ctx context.Context, path, id string, body any) (Record, error) {
	return c.record(ctx, http.MethodPut, itemPath(path, id), body)
}

// Delete removes path/id.
func (c *Client) Delete(ctx context.Context, path, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(path, id), nil)
	return err
}

// Download fetches a file body. Name comes from Content-Disposition when the
// server sends one.
func (c *Client) Download(ctx context.Context, path string) (*File, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	file := &File{
		ContentType: resp.Header().Get("Content-Type"),
		Data:        resp.Body(),
	}
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil {
		file.Name = params["filename"]
	}
	return file, nil
}

// Upload posts r as the multipart field of a form and returns the decoded
// JSON response.
func (c *Client) Upload(ctx context.Context, path, field, fileName string, r io.Reader) (Record, error) {
	req := c.http.R().SetContext(ctx).SetFileReader(field, fileName, r)
	resp, err := req.Post(path)
	if err := c.check(http.MethodPost, path, resp, err); err != nil {
		return nil, err
	}
	return decodeRecord(resp.Body(), path)
}

func (c *Client) record(ctx context.Context, method, path string, body any) (Record, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp.Body(), path)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err := c.check(method, path, resp, err); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) check(method, path string, resp *resty.Response, err error) error {
	if err != nil {
		if ctxErr := contextError(resp); ctxErr != nil {
			err = ctxErr
		}
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}
	var envelope struct {
		Code  int    `json:"code"`
		Error string `json:"error"`
	}
	if json.Unmarshal(resp.Body(), &envelope) == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Error
	}
	c.log.Info("request rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", apiErr.Status),
		zap.String("error", apiErr.Message),
	)
	return apiErr
}

func contextError(resp *resty.Response) error {
	if resp == nil || resp.Request == nil || resp.Request.Context() == nil {
		return nil
	}
	return resp.Request.Context().Err()
}

func itemPath(path, id string) string {
	return strings.TrimRight(path, "/") + "/" + id
}

func decodeRecord(body []byte, path string) (Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Record{}, nil
	}
	record := Record{}
	if err := decode(body, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return record, nil
}

func decode(body []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(dest)
}
