package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"chatterbox_service/pkg/database"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mediaURLExpiry how long a returned media URL stays fetchable
const mediaURLExpiry = 7 * 24 * time.Hour

// MediaUseCase stores message attachments and hands back their URL; the
// URL becomes the content of image/file/audio messages
type MediaUseCase struct {
	store *database.MinIOClient
}

// NewMediaUseCase init media use case
func NewMediaUseCase(store *database.MinIOClient) *MediaUseCase {
	return &MediaUseCase{store: store}
}

// Upload store the attachment under a fresh object name, return its URL
func (uc *MediaUseCase) Upload(ctx context.Context, fileName, contentType string, r io.Reader, size int64) (string, error) {
	objectName := uuid.New().String() + filepath.Ext(fileName)

	if err := uc.store.UploadStream(ctx, objectName, r, size, contentType); err != nil {
		return "", errprocess.Persistence(fmt.Sprintf("store media object failed: %v", err))
	}

	url, err := uc.store.PresignGetURL(ctx, objectName, mediaURLExpiry)
	if err != nil {
		return "", errprocess.Persistence(fmt.Sprintf("presign media URL failed: %v", err))
	}

	logger.Log.Debug("media stored",
		zap.String("object", objectName),
		zap.String("content_type", contentType))

	return url, nil
}
