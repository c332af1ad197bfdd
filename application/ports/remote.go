package ports

import (
	"context"

	"postviewer/domain/core/entities"
)

// RemoteDataClient reads users, posts and comments from the remote service.
// This is a port in hexagonal architecture - the views don't know about HTTP.
//
// Contract shared by every method:
//   - a zero identifier returns errors.ErrAbsent without any network call
//   - transport or decode failures are logged and degrade to an empty result
//     (empty non-nil slice, or a zero User); the returned error is nil
type RemoteDataClient interface {
	// FetchAllUsers lists every user. It has no precondition.
	FetchAllUsers(ctx context.Context) ([]entities.User, error)

	// FetchUserPosts lists the posts owned by userID.
	FetchUserPosts(ctx context.Context, userID int) ([]entities.Post, error)

	// FetchUser retrieves a single user.
	FetchUser(ctx context.Context, userID int) (*entities.User, error)

	// FetchPostComments lists the comments on postID.
	FetchPostComments(ctx context.Context, postID int) ([]entities.Comment, error)
}
