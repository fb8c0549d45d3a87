package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/businesses", http.StatusOK, 40*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/businesses", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/login", 0, time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `directory_gateway_upstream_requests_total{method="GET",route="/businesses",status="200"} 2`)
	assert.Contains(t, body, `directory_gateway_upstream_requests_total{method="POST",route="/login",status="error"} 1`)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/business/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"b-1", "b-2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/business/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `directory_gateway_http_requests_total{method="GET",route="/business/:id",status="200"} 2`)
	assert.Contains(t, body, `directory_gateway_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestAddSwept(t *testing.T) {
	m := New()
	m.AddSwept(0)
	m.AddSwept(3)
	assert.Contains(t, scrape(t, m), "directory_gateway_checkouts_abandoned_total 3")
}
