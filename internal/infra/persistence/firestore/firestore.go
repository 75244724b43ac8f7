// Package firestore implements the domain repositories on top of a hosted
// document store. Each repository owns one collection and maps transport
// failures onto the domain error kinds.
package firestore

import (
	"context"
	"time"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// NewClient opens the document store connection. The caller owns closing it.
func NewClient(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	firebaseCfg := cfg.Firebase
	if firebaseCfg == nil {
		return nil, errors.New("firebase configuration is required")
	}

	client, err := firestore.NewClient(ctx, firebaseCfg.ProjectID, option.WithCredentialsFile(firebaseCfg.CredentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open document store")
	}

	return client, nil
}

// opTimeout bounds a single store round-trip using the configured request
// timeout. A zero configuration falls back to a conservative default.
func opTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := 10 * time.Second
	if cfg.Store != nil && cfg.Store.RequestTimeout > 0 {
		timeout = cfg.Store.RequestTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// mapStoreError classifies store failures into domain error kinds. Not-found
// is handled per call site because each repository has its own sentinel.
func mapStoreError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(domainerrors.ErrUnavailable, "document store timed out")
	}

	switch grpcstatus.Code(err) {
	case grpccodes.Unavailable, grpccodes.DeadlineExceeded:
		return errors.Wrap(domainerrors.ErrUnavailable, "document store unavailable")
	case grpccodes.ResourceExhausted:
		return errors.Wrap(domainerrors.ErrRateLimited, "document store quota exhausted")
	default:
		return err
	}
}

func isNotFound(err error) bool {
	return grpcstatus.Code(err) == grpccodes.NotFound
}
