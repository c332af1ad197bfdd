package page

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"postviewer/application/ports/mocks"
	"postviewer/application/services"
	"postviewer/application/view"
	"postviewer/domain/core/entities"
	"postviewer/domain/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

func renderString(t *testing.T, doc *view.Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc))
	return buf.String()
}

func newPopulatedController(t *testing.T) *view.Controller {
	t.Helper()
	client := new(mocks.MockRemoteDataClient)
	client.On("FetchUser", mock.Anything, 1).Return(&entities.User{ID: 1, Name: "Leanne Graham", Company: entities.Company{Name: "Romaguera-Crona"}}, nil)
	client.On("FetchPostComments", mock.Anything, 7).Return([]entities.Comment{{Name: "id labore", Body: "laudantium", Email: "Eliseo@gardner.biz"}}, nil)

	c := view.NewController(view.NewDocument(), services.NewPostRenderer(client, zap.NewNop()), zap.NewNop())
	c.PopulateSelect([]entities.User{{ID: 1, Name: "Leanne Graham"}})
	_, err := c.RenderPosts(context.Background(), []entities.Post{{ID: 7, UserID: 1, Title: "qui est esse", Body: "est rerum"}})
	require.NoError(t, err)
	return c
}

func TestRender_EmptyDocument(t *testing.T) {
	out := renderString(t, view.NewDocument())

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<form method="post" action="/select">`)
	assert.Contains(t, out, `<select id="selectMenu" name="userId">`)
	assert.Contains(t, out, ".hide { display: none; }")
	assert.NotContains(t, out, "<script")
}

func TestRender_PostsAndToggleForms(t *testing.T) {
	c := newPopulatedController(t)

	out := renderString(t, c.Document())

	assert.Contains(t, out, `<option value="1">Leanne Graham</option>`)
	assert.Contains(t, out, "<h2>qui est esse</h2>")
	assert.Contains(t, out, "<p>Author: Leanne Graham with Romaguera-Crona</p>")
	assert.Contains(t, out, `<form method="post" action="/posts/7/toggle"><button data-post-id="7" type="submit">Show Comments</button></form>`)
	assert.Contains(t, out, `<section class="comments hide" data-post-id="7">`)
	assert.Contains(t, out, "<p>From: Eliseo@gardner.biz</p>")
}

func TestRender_HideClassFollowsVisibility(t *testing.T) {
	c := newPopulatedController(t)
	_, err := c.ToggleComments(&render.Event{Type: render.EventClick}, 7)
	require.NoError(t, err)

	out := renderString(t, c.Document())

	assert.Contains(t, out, `<section class="comments" data-post-id="7">`)
	assert.Contains(t, out, ">Hide Comments</button>")
}

func TestRender_DisabledSelect(t *testing.T) {
	doc := view.NewDocument()
	doc.Select.SetDisabled(true)

	out := renderString(t, doc)

	assert.Contains(t, out, `name="userId" disabled="">`)
	assert.Contains(t, out, `<button type="submit" disabled="">Show Posts</button>`)
}

func TestRender_EscapesText(t *testing.T) {
	doc := view.NewDocument()
	p := render.NewElement("p")
	p.SetText(`<script>alert("x")</script>`)
	doc.Main.Append(p)

	out := renderString(t, doc)

	assert.NotContains(t, out, "<script>")
	parsed, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.NotNil(t, parsed)
}
