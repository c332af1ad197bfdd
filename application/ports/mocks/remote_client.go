// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"postviewer/domain/core/entities"

	"github.com/stretchr/testify/mock"
)

// MockRemoteDataClient is a mock implementation of ports.RemoteDataClient
type MockRemoteDataClient struct {
	mock.Mock
}

func (m *MockRemoteDataClient) FetchAllUsers(ctx context.Context) ([]entities.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entities.User)
	return users, args.Error(1)
}

func (m *MockRemoteDataClient) FetchUserPosts(ctx context.Context, userID int) ([]entities.Post, error) {
	args := m.Called(ctx, userID)
	posts, _ := args.Get(0).([]entities.Post)
	return posts, args.Error(1)
}

func (m *MockRemoteDataClient) FetchUser(ctx context.Context, userID int) (*entities.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*entities.User)
	return user, args.Error(1)
}

func (m *MockRemoteDataClient) FetchPostComments(ctx context.Context, postID int) ([]entities.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]entities.Comment)
	return comments, args.Error(1)
}
