package uis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy controls the quota backoff. A zero MaxElapsed keeps retrying until
// the remote quota recovers or the context is cancelled.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// Retryer wraps Client calls with quota-aware retry.
//
// Quota errors back off and re-issue the same URL; not-found is reported as
// a missing resource (ok=false) rather than a failure; anything else
// propagates to the caller with its cause intact.
type Retryer struct {
	client *Client
	policy Policy
	logger *slog.Logger
}

// NewRetryer creates a Retryer around an existing client.
func NewRetryer(client *Client, policy Policy, logger *slog.Logger) *Retryer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retryer{client: client, policy: policy, logger: logger}
}

// FullURL exposes the client's URL expansion for resource links.
func (r *Retryer) FullURL(u string) string {
	return r.client.FullURL(u)
}

// GetJSON fetches and decodes u into v. ok is false when the document does
// not exist.
func (r *Retryer) GetJSON(ctx context.Context, u string, v any) (bool, error) {
	return r.do(ctx, u, func() error {
		return r.client.GetJSON(ctx, u, v)
	})
}

// GetBytes fetches the raw body of u. ok is false when the document does not
// exist.
func (r *Retryer) GetBytes(ctx context.Context, u string) (data []byte, ok bool, err error) {
	ok, err = r.do(ctx, u, func() error {
		data, err = r.client.GetBytes(ctx, u)
		return err
	})
	if !ok || err != nil {
		return nil, ok, err
	}
	return data, true, nil
}

func (r *Retryer) do(ctx context.Context, u string, fn func() error) (bool, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.policy.InitialInterval
	bo.MaxInterval = r.policy.MaxInterval
	bo.MaxElapsedTime = r.policy.MaxElapsed

	notFound := false
	err := backoff.Retry(func() error {
		err := fn()
		var quotaErr *QuotaError
		var notFoundErr *NotFoundError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &quotaErr):
			r.logger.Info("Quota exceeded, backing off", "url", u)
			return err
		case errors.As(err, &notFoundErr):
			r.logger.Warn("Resource not found", "url", u)
			notFound = true
			return nil
		default:
			return backoff.Permanent(err)
		}
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return false, err
	}
	return !notFound, nil
}
