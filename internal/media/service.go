package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/metrics"
	"github.com/folio-labs/portfolio-backend/internal/storage/objectstore"
)

const keyPrefix = "images/"

var (
	ErrUnsupportedType = errors.New("only jpeg, png, gif and webp images are accepted")
	ErrTooLarge        = errors.New("image exceeds the upload size limit")
	ErrNotFound        = errors.New("image not found")
	ErrInvalidName     = errors.New("invalid image name")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var namePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(jpg|png|gif|webp)$`)

// Image is a stored upload.
type Image struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type Service struct {
	store    objectstore.Store
	maxBytes int64
}

func NewService(store objectstore.Store, maxBytes int64) *Service {
	return &Service{store: store, maxBytes: maxBytes}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Upload sniffs body, rejects anything but a supported raster image and
// stores it under a fresh key.
func (s *Service) Upload(ctx context.Context, body io.Reader, size int64) (*Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedType)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrTooLarge
	}

	br := bufio.NewReaderSize(body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	key := keyPrefix + uuid.New().String() + ext
	if err := s.store.Put(ctx, key, br, size, contentType); err != nil {
		return nil, err
	}

	metrics.RecordUpload()
	logging.FromContext(ctx).Info("image uploaded",
		zap.String("key", key), zap.Int64("size", size), zap.String("content_type", contentType))
	return &Image{Key: key, URL: s.store.URL(key), ContentType: contentType, Size: size}, nil
}

// Delete removes images/<name>.
func (s *Service) Delete(ctx context.Context, name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	err := s.store.Delete(ctx, keyPrefix+name)
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		return ErrNotFound
	}
	return err
}
