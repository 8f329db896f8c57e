package sightengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/semaphore"
	bldprometheus "opencsg.com/image-moderation/builder/prometheus"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/errorx"
	"opencsg.com/image-moderation/common/utils/retry"
)

const (
	DefaultEndpoint = "https://api.sightengine.com/1.0/check.json"

	defaultTimeout        = 30 * time.Second
	defaultMaxConns       = 5
	defaultMaxIdleConns   = 2
	mediaFieldName        = "media"
	mediaFileName         = "image.jpg"
	mediaContentType      = "image/jpeg"
	maxResponseBodyLength = 1 << 20
)

// ClassificationClient submits image bytes to the content classification service.
type ClassificationClient interface {
	CheckContent(ctx context.Context, image []byte) (*ClassificationResult, error)
}

type Client struct {
	endpoint  string
	apiUser   string
	apiSecret string
	models    string

	hc     *http.Client
	sem    *semaphore.Weighted
	policy retry.Policy
}

var _ ClassificationClient = (*Client)(nil)

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithMaxConcurrency caps the number of in-flight calls, extra callers wait for a slot.
func WithMaxConcurrency(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(n)
		}
	}
}

func NewClient(apiUser, apiSecret, models string, opts ...Option) *Client {
	c := &Client{
		endpoint:  DefaultEndpoint,
		apiUser:   apiUser,
		apiSecret: apiSecret,
		models:    models,
		hc:        newHTTPClient(defaultTimeout, defaultMaxConns, defaultMaxIdleConns),
		sem:       semaphore.NewWeighted(defaultMaxConns),
		policy:    retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}
	se := cfg.Sightengine
	policy := retry.Policy{
		MaxAttempts:     uint(max(se.RetryAttempts, 1)),
		InitialInterval: time.Duration(se.RetryInitialIntervalSEC) * time.Second,
		Multiplier:      se.RetryMultiplier,
		MaxInterval:     time.Duration(se.RetryMaxIntervalSEC) * time.Second,
	}
	return NewClient(se.APIUser, se.APISecret, cfg.Moderation.Models,
		WithEndpoint(se.Endpoint),
		WithHTTPClient(newHTTPClient(time.Duration(se.TimeoutSEC)*time.Second, se.MaxConnections, se.MaxKeepAliveConnections)),
		WithMaxConcurrency(int64(se.MaxConnections)),
		WithRetryPolicy(policy),
	), nil
}

func newHTTPClient(timeout time.Duration, maxConns, maxIdleConns int) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = maxConns
	transport.MaxIdleConnsPerHost = maxIdleConns
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

// CheckContent classifies image with the configured models, retrying failed calls
// according to the client's retry policy. Only the last failure is returned.
func (c *Client) CheckContent(ctx context.Context, image []byte) (*ClassificationResult, error) {
	var result *ClassificationResult
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		// the slot is held per attempt, never across a backoff wait
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return retry.Unrecoverable(err)
		}
		defer c.sem.Release(1)

		start := time.Now()
		res, err := c.check(ctx, image)
		if err != nil {
			bldprometheus.ObserveSightengineAttempt("error", time.Since(start))
			return err
		}
		bldprometheus.ObserveSightengineAttempt("success", time.Since(start))
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) check(ctx context.Context, image []byte) (*ClassificationResult, error) {
	slog.InfoContext(ctx, "sending image to sightengine",
		slog.String("models", c.models),
		slog.String("size", humanize.Bytes(uint64(len(image)))))

	body, contentType, err := c.newForm(image)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.hc.Do(req)
	if err != nil {
		// cancellation is not an api failure, keep it recognizable
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errorx.APIFailure(fmt.Errorf("network error: %w", err), 0, errorx.Ctx().Set("endpoint", c.endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection goes back to the pool for the next attempt
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodyLength))
		return nil, errorx.APIFailure(fmt.Errorf("HTTP error: %d", resp.StatusCode), resp.StatusCode, nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLength))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errorx.APIFailure(fmt.Errorf("network error: %w", err), 0, nil)
	}
	result, err := ParseClassificationResult(data)
	if err != nil {
		return nil, errorx.APIFailure(fmt.Errorf("failed to decode response: %w", err), 0, nil)
	}
	if result.Status() != StatusSuccess {
		msg := result.ErrorMessage()
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, errorx.APIFailure(errors.New("sightengine api error: "+msg), 0, errorx.Ctx().Set("status", result.Status()))
	}

	slog.InfoContext(ctx, "received sightengine response")
	return result, nil
}

func (c *Client) newForm(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"models", c.models},
		{"api_user", c.apiUser},
		{"api_secret", c.apiSecret},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, mediaFieldName, mediaFileName))
	h.Set("Content-Type", mediaContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
