package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postviewer/application/app"
	"postviewer/application/ports/mocks"
	"postviewer/application/services"
	"postviewer/application/view"
	"postviewer/infrastructure/session"
	"postviewer/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore() *session.Store {
	client := new(mocks.MockRemoteDataClient)
	return session.NewStore(time.Minute, func() *app.Orchestrator {
		renderer := services.NewPostRenderer(client, zap.NewNop())
		return app.NewOrchestrator(client, view.NewController(view.NewDocument(), renderer, zap.NewNop()), zap.NewNop())
	}, nil, zap.NewNop())
}

func TestSession_IssuesAndReusesCookie(t *testing.T) {
	store := newTestStore()
	var seen []*app.Orchestrator
	var ids []string
	handler := Session(store, SessionOptions{CookieName: "sid"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := AppFromContext(r.Context())
		require.True(t, ok)
		id, ok := common.GetSessionID(r.Context())
		require.True(t, ok)
		seen = append(seen, a)
		ids = append(ids, id)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies(), "live session is not reissued")
	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, cookies[0].Value, ids[0])
}

func TestSession_StaleCookieStartsNewSession(t *testing.T) {
	store := newTestStore()
	handler := Session(store, SessionOptions{CookieName: "sid", Secure: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "9b2d0c4e-0000-4000-8000-000000000000"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "9b2d0c4e-0000-4000-8000-000000000000", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, 1, store.Len())
}

func TestAppFromContext_Missing(t *testing.T) {
	_, ok := AppFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
