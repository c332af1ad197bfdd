package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"postviewer/application/ports/mocks"
	"postviewer/domain/core/entities"
	"postviewer/domain/core/valueobjects"
	apperrors "postviewer/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	leanne = &entities.User{ID: 1, Name: "Leanne Graham", Company: entities.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"}}
	ervin  = &entities.User{ID: 2, Name: "Ervin Howell", Company: entities.Company{Name: "Deckow-Crist", CatchPhrase: "Proactive didactic contingency"}}
)

func TestBuildCommentsSection_AbsentPostID(t *testing.T) {
	client := new(mocks.MockRemoteDataClient)
	renderer := NewPostRenderer(client, zap.NewNop())

	section, err := renderer.BuildCommentsSection(context.Background(), 0)

	assert.Nil(t, section)
	assert.True(t, apperrors.IsAbsent(err))
	client.AssertNotCalled(t, "FetchPostComments", mock.Anything, mock.Anything)
}

func TestBuildCommentsSection(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockRemoteDataClient)
	client.On("FetchPostComments", ctx, 5).Return([]entities.Comment{
		{Name: "A", Body: "B", Email: "c@d.com"},
	}, nil)
	renderer := NewPostRenderer(client, zap.NewNop())

	section, err := renderer.BuildCommentsSection(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, "section", section.Tag())
	id, ok := section.Data(PostIDDataKey)
	assert.True(t, ok)
	assert.Equal(t, "5", id)
	assert.True(t, section.HasClass(CommentsClass))
	assert.True(t, section.HasClass(valueobjects.HideClass))
	require.Equal(t, 1, section.ChildCount())
	assert.Equal(t, "article", section.FirstChild().Tag())
	client.AssertExpectations(t)
}

func TestBuildCommentsSection_FailedFetchStillReturnsSection(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockRemoteDataClient)
	client.On("FetchPostComments", ctx, 8).Return([]entities.Comment{}, nil)
	renderer := NewPostRenderer(client, zap.NewNop())

	section, err := renderer.BuildCommentsSection(ctx, 8)

	require.NoError(t, err)
	require.NotNil(t, section)
	assert.Equal(t, 0, section.ChildCount())
}

func TestBuildPostsFragment_Absent(t *testing.T) {
	renderer := NewPostRenderer(new(mocks.MockRemoteDataClient), zap.NewNop())

	out, err := renderer.BuildPostsFragment(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestBuildPostsFragment_FixedChildOrder(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockRemoteDataClient)
	client.On("FetchUser", mock.Anything, 1).Return(leanne, nil)
	client.On("FetchPostComments", mock.Anything, 1).Return([]entities.Comment{{Name: "n", Body: "b", Email: "e@x.io"}}, nil)
	renderer := NewPostRenderer(client, zap.NewNop())

	out, err := renderer.BuildPostsFragment(ctx, []entities.Post{
		{ID: 1, UserID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Fragment.ChildCount())

	article := out.Fragment.FirstChild()
	kids := article.Children()
	require.Len(t, kids, 7)

	wantTags := []string{"h2", "p", "p", "p", "p", "button", "section"}
	for i, k := range kids {
		assert.Equal(t, wantTags[i], k.Tag(), "child %d", i)
	}
	assert.Equal(t, "sunt aut facere", kids[0].Text())
	assert.Equal(t, "quia et suscipit", kids[1].Text())
	assert.Equal(t, "Post ID: 1", kids[2].Text())
	assert.Equal(t, "Author: Leanne Graham with Romaguera-Crona", kids[3].Text())
	assert.Equal(t, "Multi-layered client-server neural-net", kids[4].Text())
	assert.Equal(t, "Show Comments", kids[5].Text())
	id, _ := kids[5].Data(PostIDDataKey)
	assert.Equal(t, "1", id)

	require.Len(t, out.Posts, 1)
	assert.Same(t, kids[5], out.Posts[0].Button)
	assert.Same(t, kids[6], out.Posts[0].Section)
	assert.Equal(t, valueobjects.PostID(1), out.Posts[0].PostID)
}

func TestBuildPostsFragment_PreservesOrderAndIsSequential(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockRemoteDataClient)

	var mu sync.Mutex
	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, name)
		}
	}

	// The first author is slow; order must not depend on latency.
	client.On("FetchUser", mock.Anything, 1).After(30 * time.Millisecond).Run(record("user1")).Return(leanne, nil)
	client.On("FetchUser", mock.Anything, 2).Run(record("user2")).Return(ervin, nil)
	client.On("FetchPostComments", mock.Anything, 11).Run(record("comments11")).Return([]entities.Comment{}, nil)
	client.On("FetchPostComments", mock.Anything, 22).Run(record("comments22")).Return([]entities.Comment{}, nil)
	renderer := NewPostRenderer(client, zap.NewNop())

	out, err := renderer.BuildPostsFragment(ctx, []entities.Post{
		{ID: 11, UserID: 1, Title: "A"},
		{ID: 22, UserID: 2, Title: "B"},
	})
	require.NoError(t, err)

	articles := out.Fragment.Children()
	require.Len(t, articles, 2)
	assert.Equal(t, "A", articles[0].FirstChild().Text())
	assert.Equal(t, "B", articles[1].FirstChild().Text())
	assert.Equal(t, []string{"user1", "comments11", "user2", "comments22"}, calls)
	client.AssertExpectations(t)
}

func TestBuildPostsFragment_EmptyAuthorFallback(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockRemoteDataClient)
	client.On("FetchUser", mock.Anything, 3).Return(&entities.User{}, nil)
	client.On("FetchPostComments", mock.Anything, 7).Return([]entities.Comment{}, nil)
	renderer := NewPostRenderer(client, zap.NewNop())

	out, err := renderer.BuildPostsFragment(ctx, []entities.Post{{ID: 7, UserID: 3, Title: "t"}})

	require.NoError(t, err)
	kids := out.Fragment.FirstChild().Children()
	assert.Equal(t, "Author:  with ", kids[3].Text())
	assert.Equal(t, "", kids[4].Text())
	assert.Equal(t, 0, kids[6].ChildCount())
}

func TestBuildPostsFragment_EmptyPosts(t *testing.T) {
	renderer := NewPostRenderer(new(mocks.MockRemoteDataClient), zap.NewNop())

	out, err := renderer.BuildPostsFragment(context.Background(), []entities.Post{})

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Fragment.ChildCount())
	assert.Empty(t, out.Posts)
}
