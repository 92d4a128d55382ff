package job

import (
	"context"
	"time"

	"podcasthub-backend/internal/infrastructure/storage"
)

// TempObjectStore is implemented by *storage.S3Storage.
type TempObjectStore interface {
	DeleteTemporary(ctx context.Context, key string) error
	ListTemporary(ctx context.Context, olderThan time.Time) ([]storage.TempObject, error)
}

// KeyReferenceChecker reports which temporary keys pending episodes still need.
type KeyReferenceChecker interface {
	KeysAwaitingPromotion(ctx context.Context, keys []string) (map[string]struct{}, error)
}
