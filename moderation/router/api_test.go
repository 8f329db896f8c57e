package router

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	mock_component "opencsg.com/image-moderation/_mocks/opencsg.com/image-moderation/moderation/component"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/types"
	_ "opencsg.com/image-moderation/docs"
	"opencsg.com/image-moderation/moderation/handler"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Moderation.MaxFileSizeBytes = 10 << 20
	cfg.APIServer.CORSAllowOrigins = "*"
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *mock_component.MockModerationComponent) {
	gin.SetMode(gin.TestMode)
	mc := mock_component.NewMockModerationComponent(t)
	r := NewRouterWithHandlers(cfg, handler.NewModerationHandlerWithComponent(mc), handler.NewHealthHandler())
	return r, mc
}

func TestRouter_Routes(t *testing.T) {
	r, mc := newTestRouter(t, testConfig())

	for path, expected := range map[string]string{
		"/":       `{"message":"Image Moderation API is running"}`,
		"/health": `{"status":"healthy","version":"1.0.0"}`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		require.JSONEq(t, expected, w.Body.String(), path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "image_moderation_http_requests_total")

	// pprof is off by default
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	mc.EXPECT().Moderate(mock.Anything, mock.Anything).Return(&types.ModerationDecision{
		Status: types.ModerationStatusOK,
		Scores: map[string]float64{"nudity_score": 0.2},
	}, nil)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cat.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/moderate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"OK","scores":{"nudity_score":0.2}}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Swagger(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	cfg := testConfig()
	cfg.EnableSwagger = true
	r, _ = newTestRouter(t, cfg)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"/moderate"`)
}

func TestRouter_Pprof(t *testing.T) {
	cfg := testConfig()
	cfg.EnablePprof = true
	r, _ := newTestRouter(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/moderate", nil)
	req.Header.Set("Origin", "https://client.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	cfg := testConfig()
	cfg.APIServer.CORSAllowOrigins = "https://app.client.test"
	r, _ = newTestRouter(t, cfg)
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.client.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://app.client.test", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewRouter_RequiresCredentials(t *testing.T) {
	_, err := NewRouter(testConfig())
	require.Error(t, err)
}
