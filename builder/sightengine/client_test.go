package sightengine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/errorx"
	"opencsg.com/image-moderation/common/utils/retry"
)

const testEndpoint = "https://sightengine.test/1.0/check.json"

type fakeTimer struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (t *fakeTimer) After(d time.Duration) <-chan time.Time {
	t.mu.Lock()
	t.waits = append(t.waits, d)
	t.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport, *fakeTimer) {
	mt := httpmock.NewMockTransport()
	timer := &fakeTimer{}
	policy := retry.DefaultPolicy()
	policy.Timer = timer
	c := NewClient("user", "secret", "nudity-2.0,gore",
		WithEndpoint(testEndpoint),
		WithHTTPClient(&http.Client{Transport: mt}),
		WithRetryPolicy(policy),
	)
	return c, mt, timer
}

func successBody(t *testing.T) string {
	body, err := sjson.Set("", "status", "success")
	require.NoError(t, err)
	body, err = sjson.Set(body, "nudity.sexual_activity", 0.1)
	require.NoError(t, err)
	body, err = sjson.Set(body, "nudity.none", 0.9)
	require.NoError(t, err)
	body, err = sjson.Set(body, "gore.prob", 0.02)
	require.NoError(t, err)
	return body
}

func TestClient_CheckContent_Success(t *testing.T) {
	c, mt, timer := newTestClient(t)
	image := []byte("fake image bytes")

	mt.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			return nil, err
		}
		require.Equal(t, "nudity-2.0,gore", req.FormValue("models"))
		require.Equal(t, "user", req.FormValue("api_user"))
		require.Equal(t, "secret", req.FormValue("api_secret"))
		files := req.MultipartForm.File["media"]
		require.Len(t, files, 1)
		require.Equal(t, "image.jpg", files[0].Filename)
		require.Equal(t, "image/jpeg", files[0].Header.Get("Content-Type"))
		require.Equal(t, int64(len(image)), files[0].Size)
		return httpmock.NewStringResponse(http.StatusOK, successBody(t)), nil
	})

	result, err := c.CheckContent(context.Background(), image)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, result.Status())
	nudity, ok := result.Get("nudity")
	require.True(t, ok)
	require.Equal(t, KindObject, nudity.Kind())
	gore, ok := result.Get("gore")
	require.True(t, ok)
	prob, ok := gore.Get("prob")
	require.True(t, ok)
	require.Equal(t, 0.02, prob.Float())
	require.JSONEq(t, successBody(t), string(result.Raw()))
	require.Equal(t, 1, mt.GetTotalCallCount())
	require.Empty(t, timer.waits)
}

func TestClient_CheckContent_HTTPErrorRetried(t *testing.T) {
	c, mt, timer := newTestClient(t)
	mt.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusInternalServerError, "oops"))

	_, err := c.CheckContent(context.Background(), []byte("img"))
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.ErrAPI)
	require.Contains(t, err.Error(), "HTTP error: 500")
	code, ok := errorx.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, 3, mt.GetTotalCallCount())
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, timer.waits)
}

type slotCheckingTimer struct {
	c    *Client
	free []bool
}

func (t *slotCheckingTimer) After(d time.Duration) <-chan time.Time {
	free := t.c.sem.TryAcquire(1)
	if free {
		t.c.sem.Release(1)
	}
	t.free = append(t.free, free)
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestClient_CheckContent_SlotReleasedDuringBackoff(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusBadGateway, ""))
	c := NewClient("user", "secret", "nudity-2.0",
		WithEndpoint(testEndpoint),
		WithHTTPClient(&http.Client{Transport: mt}),
		WithMaxConcurrency(1),
	)
	timer := &slotCheckingTimer{c: c}
	policy := retry.DefaultPolicy()
	policy.Timer = timer
	c.policy = policy

	_, err := c.CheckContent(context.Background(), []byte("img"))
	require.ErrorIs(t, err, errorx.ErrAPI)
	require.Equal(t, 3, mt.GetTotalCallCount())
	require.Equal(t, []bool{true, true}, timer.free)
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestClient_CheckContent_ErrorBodyDrained(t *testing.T) {
	c, mt, _ := newTestClient(t)
	var bodies []*trackingBody
	mt.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		body := &trackingBody{Reader: strings.NewReader(strings.Repeat("upstream unavailable ", 64))}
		bodies = append(bodies, body)
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Header:     http.Header{},
			Body:       body,
			Request:    req,
		}, nil
	})

	_, err := c.CheckContent(context.Background(), []byte("img"))
	require.ErrorIs(t, err, errorx.ErrAPI)
	require.Len(t, bodies, 3)
	for _, body := range bodies {
		require.True(t, body.closed)
		n, _ := body.Read(make([]byte, 1))
		require.Zero(t, n)
	}
}

func TestClient_CheckContent_RecoversOnRetry(t *testing.T) {
	c, mt, timer := newTestClient(t)
	calls := 0
	mt.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return httpmock.NewStringResponse(http.StatusBadGateway, ""), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, successBody(t)), nil
	})

	result, err := c.CheckContent(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, result.Status())
	require.Equal(t, 2, calls)
	require.Equal(t, []time.Duration{2 * time.Second}, timer.waits)
}

func TestClient_CheckContent_APIReportedFailure(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "with message",
			body:     `{"status":"failure","error":{"type":"credentials_error","message":"Incorrect API user or secret"}}`,
			expected: "sightengine api error: Incorrect API user or secret",
		},
		{
			name:     "without message",
			body:     `{"status":"failure"}`,
			expected: "sightengine api error: Unknown error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, mt, _ := newTestClient(t)
			mt.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusOK, tc.body))

			_, err := c.CheckContent(context.Background(), []byte("img"))
			require.ErrorIs(t, err, errorx.ErrAPI)
			var customErr errorx.CustomError
			require.True(t, errors.As(err, &customErr))
			require.Equal(t, tc.expected, customErr.Message())
			_, ok := errorx.StatusCode(err)
			require.False(t, ok)
			require.Equal(t, 3, mt.GetTotalCallCount())
		})
	}
}

func TestClient_CheckContent_InvalidJSON(t *testing.T) {
	c, mt, _ := newTestClient(t)
	mt.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusOK, "not json"))

	_, err := c.CheckContent(context.Background(), []byte("img"))
	require.ErrorIs(t, err, errorx.ErrAPI)
	require.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_CheckContent_NetworkError(t *testing.T) {
	c, mt, timer := newTestClient(t)
	mt.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.CheckContent(context.Background(), []byte("img"))
	require.ErrorIs(t, err, errorx.ErrAPI)
	require.Contains(t, err.Error(), "network error")
	require.Contains(t, err.Error(), "connection refused")
	require.Equal(t, 3, mt.GetTotalCallCount())
	require.Len(t, timer.waits, 2)
}

func TestClient_CheckContent_Canceled(t *testing.T) {
	c, mt, _ := newTestClient(t)
	mt.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusOK, successBody(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CheckContent(ctx, []byte("img"))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, mt.GetTotalCallCount())
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := &config.Config{}
	_, err := NewClientFromConfig(cfg)
	require.Error(t, err)

	cfg.Sightengine.APIUser = "user"
	cfg.Sightengine.APISecret = "secret"
	cfg.Sightengine.Endpoint = testEndpoint
	cfg.Sightengine.TimeoutSEC = 30
	cfg.Sightengine.MaxConnections = 5
	cfg.Sightengine.MaxKeepAliveConnections = 2
	cfg.Sightengine.RetryAttempts = 3
	cfg.Sightengine.RetryInitialIntervalSEC = 2
	cfg.Sightengine.RetryMaxIntervalSEC = 8
	cfg.Sightengine.RetryMultiplier = 2
	cfg.Moderation.Models = "nudity-2.0"

	c, err := NewClientFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, testEndpoint, c.endpoint)
	require.Equal(t, "nudity-2.0", c.models)
	require.Equal(t, 30*time.Second, c.hc.Timeout)
	require.Equal(t, uint(3), c.policy.MaxAttempts)
	require.Equal(t, 2*time.Second, c.policy.Delay(1))
	require.Equal(t, 4*time.Second, c.policy.Delay(2))
}
