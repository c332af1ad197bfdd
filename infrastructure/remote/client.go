// Package remote implements ports.RemoteDataClient over the JSON REST API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"postviewer/application/ports"
	"postviewer/domain/core/entities"
	apperrors "postviewer/pkg/errors"
	"postviewer/pkg/observability"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Endpoint labels used in logs, spans and metrics.
const (
	EndpointUsers    = "users"
	EndpointUser     = "user"
	EndpointPosts    = "user_posts"
	EndpointComments = "post_comments"
)

var tracer = otel.Tracer("postviewer/infrastructure/remote")

// Options configures the client.
type Options struct {
	BaseURL     string
	DialTimeout time.Duration

	EnableBreaker bool
	MaxFailures   int
	OpenTimeout   time.Duration
}

// Client fetches users, posts and comments. Failures never reach the
// caller: they are logged and turned into empty results.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *observability.Collector
	logger  *zap.Logger
}

var _ ports.RemoteDataClient = (*Client)(nil)

// statusError is a non-2xx response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// NewClient creates a client. metrics may be nil.
func NewClient(opts Options, metrics *observability.Collector, logger *zap.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.DialTimeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: opts.DialTimeout}).DialContext
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Transport: transport},
		metrics: metrics,
		logger:  logger,
	}
	if opts.EnableBreaker {
		c.breaker = newBreaker(opts, metrics, logger)
	}
	return c
}

func newBreaker(opts Options, metrics *observability.Collector, logger *zap.Logger) *gobreaker.CircuitBreaker {
	maxFailures := uint32(opts.MaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-api",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if metrics != nil {
				metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code < http.StatusInternalServerError
			}
			return err == nil
		},
	})
}

// FetchAllUsers lists every user.
func (c *Client) FetchAllUsers(ctx context.Context) ([]entities.User, error) {
	users := []entities.User{}
	if !c.get(ctx, EndpointUsers, "/users", &users) || users == nil {
		return []entities.User{}, nil
	}
	return users, nil
}

// FetchUserPosts lists the posts owned by userID.
func (c *Client) FetchUserPosts(ctx context.Context, userID int) ([]entities.Post, error) {
	if userID == 0 {
		return nil, apperrors.Absent("userID")
	}
	posts := []entities.Post{}
	if !c.get(ctx, EndpointPosts, fmt.Sprintf("/users/%d/posts", userID), &posts) || posts == nil {
		return []entities.Post{}, nil
	}
	return posts, nil
}

// FetchUser retrieves a single user. A failed fetch yields the zero user.
func (c *Client) FetchUser(ctx context.Context, userID int) (*entities.User, error) {
	if userID == 0 {
		return nil, apperrors.Absent("userID")
	}
	var user entities.User
	if !c.get(ctx, EndpointUser, fmt.Sprintf("/users/%d", userID), &user) {
		return &entities.User{}, nil
	}
	return &user, nil
}

// FetchPostComments lists the comments on postID.
func (c *Client) FetchPostComments(ctx context.Context, postID int) ([]entities.Comment, error) {
	if postID == 0 {
		return nil, apperrors.Absent("postID")
	}
	comments := []entities.Comment{}
	if !c.get(ctx, EndpointComments, fmt.Sprintf("/posts/%d/comments", postID), &comments) || comments == nil {
		return []entities.Comment{}, nil
	}
	return comments, nil
}

// get performs one GET and decodes the body into out. It reports whether
// out holds a decoded response; every failure is logged here.
func (c *Client) get(ctx context.Context, endpoint, path string, out interface{}) bool {
	url := c.baseURL + path
	ctx, span := tracer.Start(ctx, "RemoteDataClient."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.execute(func() error { return c.do(ctx, url, out) })
	elapsed := time.Since(start)

	outcome := observability.OutcomeOK
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = observability.OutcomeRejected
	case err != nil:
		outcome = observability.OutcomeDegraded
	}
	if c.metrics != nil {
		c.metrics.ObserveRemote(endpoint, outcome, elapsed)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		c.logger.Warn("Remote fetch failed, using empty result",
			zap.String("endpoint", endpoint),
			zap.String("url", url),
			zap.String("outcome", outcome),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (c *Client) execute(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (c *Client) do(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewExternalError("remote api", &statusError{code: resp.StatusCode})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("remote api", fmt.Errorf("decode response: %w", err))
	}
	return nil
}
