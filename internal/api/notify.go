package api

import (
	"context"
	"errors"
)

type Notifier interface {
	Error(message string)
	Success(message string)
}

const networkErrorMessage = "Network error. Check your connection and try again."

// NotifyingClient wraps a Doer and surfaces every failure as a toast before
// returning it. The return path is unchanged so callers can still branch on
// the error.
type NotifyingClient struct {
	inner  Doer
	toasts Notifier
}

func NewNotifyingClient(inner Doer, toasts Notifier) *NotifyingClient {
	return &NotifyingClient{inner: inner, toasts: toasts}
}

func (c *NotifyingClient) Get(ctx context.Context, path string, out any) error {
	return c.notify(c.inner.Get(ctx, path, out))
}

func (c *NotifyingClient) Post(ctx context.Context, path string, body, out any) error {
	return c.notify(c.inner.Post(ctx, path, body, out))
}

func (c *NotifyingClient) Put(ctx context.Context, path string, body, out any) error {
	return c.notify(c.inner.Put(ctx, path, body, out))
}

func (c *NotifyingClient) Delete(ctx context.Context, path string, out any) error {
	return c.notify(c.inner.Delete(ctx, path, out))
}

func (c *NotifyingClient) notify(err error) error {
	if err == nil {
		return nil
	}
	c.toasts.Error(ErrorMessage(err))
	return err
}

// ErrorMessage extracts the user-facing message from a request failure, for
// callers that run on the undecorated client and toast selectively.
func ErrorMessage(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return networkErrorMessage
}
