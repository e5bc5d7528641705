// Package storage puts recipe photos into object storage and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"obiabedidi/filemgr"
)

type ObjectStore interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// RecipePhotoKey builds recipes/{authorID}/{epochMillis}_{fileName}.
func RecipePhotoKey(authorID string, at time.Time, fileName string) string {
	return fmt.Sprintf("recipes/%s/%d_%s", authorID, at.UnixMilli(), filemgr.SafeName(fileName))
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
