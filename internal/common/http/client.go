package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/logger"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Options configures the backend client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	UserAgent  string
	Logger     logger.Logger
}

// Client is a thin resty wrapper that maps every non-2xx response and
// transport failure to a *errors.StandardError.
type Client struct {
	rest   *resty.Client
	logger logger.Logger
}

// Response is the raw outcome of a successful (2xx) call.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// FilePart is one file in a multipart upload.
type FilePart struct {
	Field    string
	FileName string
	Reader   io.Reader
}

func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	rest := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")

	if opts.Timeout > 0 {
		rest.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		rest.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.RetryCount > 0 {
		rest.SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(opts.RetryWait).
			AddRetryCondition(retryIdempotent)
	}

	rest.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})

	rest.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		log.Debug("Backend response", map[string]interface{}{
			"method":    r.Request.Method,
			"url":       r.Request.URL,
			"status":    r.StatusCode(),
			"duration":  r.Time().String(),
			"requestId": r.Request.Header.Get(RequestIDHeader),
		})
		return nil
	})

	return &Client{rest: rest, logger: log}
}

// retryIdempotent retries reads on transport failures and 5xx only. Creates
// and updates are surfaced to the caller instead.
func retryIdempotent(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || r.StatusCode() >= http.StatusInternalServerError
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(c.rest.R().SetContext(ctx), http.MethodGet, path)
}

func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}) (*Response, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	return c.do(req, http.MethodPost, path)
}

func (c *Client) PatchJSON(ctx context.Context, path string, payload interface{}) (*Response, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	return c.do(req, http.MethodPatch, path)
}

// PostMultipart sends text fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart) (*Response, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetMultipartFormData(fields)
	for _, f := range files {
		req.SetFileReader(f.Field, f.FileName, f.Reader)
	}
	return c.do(req, http.MethodPost, path)
}

func (c *Client) do(req *resty.Request, method, path string) (*Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		stdErr := errors.Normalize(err)
		if stdErr.Code == errors.ErrCodeUnknown {
			// resty surfaces dial and read failures as plain errors
			stdErr = errors.NewNetworkError(err)
		}
		c.logger.Warn("Backend request failed", map[string]interface{}{
			"method":    method,
			"path":      path,
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})
		return nil, stdErr
	}

	if !resp.IsSuccess() {
		return nil, errors.FromHTTPStatus(resp.StatusCode(), resp.Body())
	}

	return &Response{
		Status: resp.StatusCode(),
		Body:   resp.Body(),
		Header: resp.Header(),
	}, nil
}
