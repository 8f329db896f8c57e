package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bldprometheus "opencsg.com/image-moderation/builder/prometheus"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/utils/trace"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetInfraMiddleware(r, &config.Config{}, "test")
	return r
}

func TestInfraMiddleware_Healthz(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(trace.HeaderRequestID))
}

func TestRequest_PropagatesRequestID(t *testing.T) {
	r := newRouter()
	var fromCtx string
	r.GET("/ping", func(c *gin.Context) {
		fromCtx = trace.GetRequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(trace.HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(trace.HeaderRequestID))
	assert.Equal(t, "req-123", fromCtx)
}

func TestRecovery(t *testing.T) {
	bldprometheus.InitMetrics()
	before := testutil.ToFloat64(bldprometheus.HttpPanicsTotal)

	r := newRouter()
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept-Language", "ru")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"detail":"внутренняя ошибка сервера"}`, w.Body.String())
	require.Equal(t, before+1, testutil.ToFloat64(bldprometheus.HttpPanicsTotal))
}

func TestModifyAcceptLanguageMiddleware(t *testing.T) {
	cases := map[string]string{
		"":               "en-US",
		"ru":             "ru-RU",
		"zh-CN,zh;q=0.9": "en-US",
	}
	for header, expected := range cases {
		r := newRouter()
		var got string
		r.GET("/lang", func(c *gin.Context) {
			got = c.GetHeader("Accept-Language")
		})
		req := httptest.NewRequest(http.MethodGet, "/lang", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, expected, got, header)
	}
}

func TestMetrics(t *testing.T) {
	bldprometheus.InitMetrics()
	r := newRouter()
	r.POST("/moderate", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	counter := bldprometheus.HttpRequestsTotal.WithLabelValues(http.MethodPost, "/moderate", "400")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/moderate", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
