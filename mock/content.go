package mock

import (
	"context"

	"github.com/fwojciec/sitefinity"
)

var _ sitefinity.ContentAPI = (*ContentAPI)(nil)

// ContentAPI is a mock implementation of sitefinity.ContentAPI.
type ContentAPI struct {
	ContentTypesFn func(ctx context.Context, sess *sitefinity.Session, serviceURL string) ([]*sitefinity.ContentType, error)
	CountFn        func(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (int, error)
	PageFn         func(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) ([]*sitefinity.Item, error)
}

func (a *ContentAPI) ContentTypes(ctx context.Context, sess *sitefinity.Session, serviceURL string) ([]*sitefinity.ContentType, error) {
	return a.ContentTypesFn(ctx, sess, serviceURL)
}

func (a *ContentAPI) Count(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (int, error) {
	return a.CountFn(ctx, sess, task)
}

func (a *ContentAPI) Page(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) ([]*sitefinity.Item, error) {
	return a.PageFn(ctx, sess, task)
}

var _ sitefinity.Authenticator = (*Authenticator)(nil)

// Authenticator is a mock implementation of sitefinity.Authenticator.
type Authenticator struct {
	AuthenticateFn func(ctx context.Context, tokenURL string, creds *sitefinity.Credentials) (*sitefinity.Session, error)
}

func (a *Authenticator) Authenticate(ctx context.Context, tokenURL string, creds *sitefinity.Credentials) (*sitefinity.Session, error) {
	return a.AuthenticateFn(ctx, tokenURL, creds)
}

var _ sitefinity.RequestLimiter = (*RequestLimiter)(nil)

// RequestLimiter is a mock implementation of sitefinity.RequestLimiter.
type RequestLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *RequestLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
