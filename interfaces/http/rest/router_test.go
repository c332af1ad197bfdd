package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"postviewer/application/app"
	"postviewer/application/ports/mocks"
	"postviewer/application/services"
	"postviewer/application/view"
	"postviewer/domain/core/entities"
	"postviewer/infrastructure/session"
	"postviewer/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCookie = "postviewer_session"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	client := new(mocks.MockRemoteDataClient)
	client.On("FetchAllUsers", mock.Anything).Return([]entities.User{
		{ID: 1, Name: "Leanne Graham", Company: entities.Company{Name: "Romaguera-Crona"}},
		{ID: 2, Name: "Ervin Howell", Company: entities.Company{Name: "Deckow-Crist"}},
	}, nil)
	client.On("FetchUserPosts", mock.Anything, 1).Return([]entities.Post{
		{ID: 11, UserID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
	}, nil)
	client.On("FetchUser", mock.Anything, 1).Return(&entities.User{ID: 1, Name: "Leanne Graham", Company: entities.Company{Name: "Romaguera-Crona"}}, nil)
	client.On("FetchPostComments", mock.Anything, 11).Return([]entities.Comment{{Name: "id labore", Body: "laudantium", Email: "Eliseo@gardner.biz"}}, nil)

	logger := zap.NewNop()
	factory := func() *app.Orchestrator {
		renderer := services.NewPostRenderer(client, logger)
		return app.NewOrchestrator(client, view.NewController(view.NewDocument(), renderer, logger), logger)
	}
	metrics := observability.NewCollector("postviewer")
	store := session.NewStore(time.Minute, factory, metrics, logger)

	router := NewRouter(RouterConfig{
		SessionCookie:  testCookie,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
	}, store, metrics, logger)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func getBody(t *testing.T, c *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postJSON(t *testing.T, c *http.Client, url, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	status, body := getBody(t, c, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, body)

	status, _ = getBody(t, c, srv.URL+"/ready")
	assert.Equal(t, http.StatusOK, status)

	status, body = getBody(t, c, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `postviewer_http_requests_total{method="GET",route="/health",status="200"} 1`)

	u, _ := url.Parse(srv.URL)
	assert.Empty(t, c.Jar.Cookies(u), "health routes do not start sessions")
}

func TestPage_InitialRender(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	status, body := getBody(t, c, srv.URL+"/")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<option value="1">Leanne Graham</option>`)
	assert.Contains(t, body, `<option value="2">Ervin Howell</option>`)
	assert.Contains(t, body, `<p class="default-text">Select an Employee to display their posts.</p>`)

	u, _ := url.Parse(srv.URL)
	cookies := c.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookie, cookies[0].Name)
}

func TestPage_SelectAndToggle(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)
	getBody(t, c, srv.URL+"/")

	resp, err := c.PostForm(srv.URL+"/select", url.Values{"userId": {"1"}})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "303 is followed back to the page")
	page := string(body)
	assert.Contains(t, page, "<h2>sunt aut facere</h2>")
	assert.Contains(t, page, `<option selected="" value="1">Leanne Graham</option>`)
	assert.Contains(t, page, `<section class="comments hide" data-post-id="11">`)
	assert.NotContains(t, page, `class="default-text"`)

	resp, err = c.PostForm(srv.URL+"/posts/11/toggle", nil)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `<section class="comments" data-post-id="11">`)
	assert.Contains(t, string(body), ">Hide Comments</button>")
}

func TestPage_ToggleUnknownPost(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	resp, err := c.PostForm(srv.URL+"/posts/99/toggle", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SelectionStateAndToggle(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	status, out := postJSON(t, c, srv.URL+"/api/v1/selection", `{"userId":1}`)
	require.Equal(t, http.StatusOK, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["userId"])
	assert.Equal(t, true, data["refreshed"])
	assert.Len(t, data["posts"], 1)

	status, out = postJSON(t, c, srv.URL+"/api/v1/posts/11/toggle", "")
	require.Equal(t, http.StatusOK, status)
	data = out["data"].(map[string]interface{})
	assert.Equal(t, "shown", data["visibility"])
	assert.Equal(t, "Hide Comments", data["label"])

	status, body := getBody(t, c, srv.URL+"/api/v1/state")
	require.Equal(t, http.StatusOK, status)
	var state struct {
		Data struct {
			SelectedUser int `json:"selectedUser"`
			Users        int `json:"users"`
			Posts        []struct {
				PostID     int    `json:"postId"`
				Visibility string `json:"visibility"`
			} `json:"posts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.Equal(t, 1, state.Data.SelectedUser)
	assert.Equal(t, 2, state.Data.Users)
	require.Len(t, state.Data.Posts, 1)
	assert.Equal(t, 11, state.Data.Posts[0].PostID)
	assert.Equal(t, "shown", state.Data.Posts[0].Visibility)
}

func TestAPI_Errors(t *testing.T) {
	srv := newTestServer(t)
	c := newBrowser(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "malformed body", path: "/api/v1/selection", body: `{"userId":`, status: http.StatusBadRequest},
		{name: "missing user", path: "/api/v1/selection", body: `{}`, status: http.StatusBadRequest},
		{name: "negative user", path: "/api/v1/selection", body: `{"userId":-1}`, status: http.StatusBadRequest},
		{name: "unknown post", path: "/api/v1/posts/404/toggle", status: http.StatusNotFound, code: "NO_MATCH"},
		{name: "zero post", path: "/api/v1/posts/0/toggle", status: http.StatusBadRequest, code: "ABSENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := postJSON(t, c, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, true, out["error"])
			if tt.code != "" {
				assert.Equal(t, tt.code, out["code"])
			}
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := newBrowser(t)
	bob := newBrowser(t)

	status, _ := postJSON(t, alice, srv.URL+"/api/v1/selection", `{"userId":1}`)
	require.Equal(t, http.StatusOK, status)

	_, body := getBody(t, bob, srv.URL+"/")
	assert.NotContains(t, body, "sunt aut facere")
	assert.Contains(t, body, `class="default-text"`)
}
