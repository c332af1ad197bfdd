package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("postviewer")
	b := NewCollector("postviewer")

	a.ObserveRemote("users", OutcomeOK, 10*time.Millisecond)

	assert.Contains(t, scrape(t, a), `postviewer_remote_requests_total{endpoint="users",outcome="ok"} 1`)
	assert.NotContains(t, scrape(t, b), `postviewer_remote_requests_total{endpoint="users"`)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("postviewer")
	c.ObserveHTTP(http.MethodGet, "/", "200", time.Millisecond)
	c.ActiveSessions.Set(2)

	body := scrape(t, c)

	assert.Contains(t, body, `postviewer_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, body, "postviewer_active_sessions 2")
	assert.Contains(t, body, "go_goroutines")
}
