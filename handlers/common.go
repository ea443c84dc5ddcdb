// Package handlers contains one controller per entity. Handlers report
// failures through c.Error; the error normalizer middleware shapes the
// response.
package handlers

import (
	"context"
	"errors"
	"time"

	"rayverse/apperror"
	"rayverse/database"
)

// Signer mints time-limited signed URLs for storage keys.
type Signer interface {
	PresignGet(ctx context.Context, objectKey string) (string, error)
}

// ContentFetcher retrieves a text object through its signed URL.
type ContentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

const requestTimeout = 10 * time.Second

// requestContext bounds store and storage work for one request. Issued work
// is not tied to the client connection: a disconnect does not abort in-flight
// signing calls.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// notFoundOr maps the repository's not-found sentinel to a 404 with the
// given message; any other error passes through for the normalizer.
func notFoundOr(err error, message string) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return err
}
