package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocFacts/pkg/errors"
)

var (
	ErrDocumentNotFound = errors.New(errors.ErrCodeNotFound, "document not found")
	ErrDocumentTooLarge = errors.New(errors.ErrCodeValidation, "document exceeds size limit")
	ErrInvalidKey       = errors.New(errors.ErrCodeValidation, "object key required")
)

// ObjectStore is the slice of MinIOClient the repository needs.
type ObjectStore interface {
	Bucket() string
	MaxObjectSize() int64
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error)
	StatObject(ctx context.Context, key string) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) <-chan minio.ObjectInfo
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

var _ ObjectStore = (*MinIOClient)(nil)

// Document is a stored document fetched for extraction.
type Document struct {
	Key          string
	Data         []byte
	ContentType  string
	Size         int64
	ETag         string
	LastModified time.Time
}

// DocumentInfo describes a stored document without its contents.
type DocumentInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// DocumentRepository retrieves and manages documents in object storage.
type DocumentRepository interface {
	GetDocument(ctx context.Context, key string) (*Document, error)
	PutDocument(ctx context.Context, key string, data []byte, contentType string) (*DocumentInfo, error)
	DeleteDocument(ctx context.Context, key string) error
	DocumentExists(ctx context.Context, key string) (bool, error)
	GetDocumentInfo(ctx context.Context, key string) (*DocumentInfo, error)
	ListDocuments(ctx context.Context, prefix string, limit int) ([]*DocumentInfo, error)
	PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type minioRepository struct {
	store  ObjectStore
	logger logging.Logger
}

var _ DocumentRepository = (*minioRepository)(nil)

func NewDocumentRepository(store ObjectStore, log logging.Logger) DocumentRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioRepository{store: store, logger: log}
}

// GetDocument fetches a document, rejecting objects above the configured
// size limit before reading any bytes.
func (r *minioRepository) GetDocument(ctx context.Context, key string) (*Document, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	info, err := r.store.StatObject(ctx, key)
	if err != nil {
		return nil, mapObjectError(err)
	}
	if max := r.store.MaxObjectSize(); max > 0 && info.Size > max {
		return nil, ErrDocumentTooLarge
	}

	obj, err := r.store.GetObject(ctx, key)
	if err != nil {
		return nil, mapObjectError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read document")
	}

	r.logger.Debug("document fetched",
		logging.String("key", key),
		logging.Int64("size", info.Size))

	return &Document{
		Key:          key,
		Data:         data,
		ContentType:  info.ContentType,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (r *minioRepository) PutDocument(ctx context.Context, key string, data []byte, contentType string) (*DocumentInfo, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if max := r.store.MaxObjectSize(); max > 0 && int64(len(data)) > max {
		return nil, ErrDocumentTooLarge
	}
	if contentType == "" && len(data) > 0 {
		n := len(data)
		if n > 512 {
			n = 512
		}
		contentType = http.DetectContentType(data[:n])
	}

	info, err := r.store.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to store document")
	}

	return &DocumentInfo{
		Key:          key,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: time.Now().UTC(),
	}, nil
}

func (r *minioRepository) DeleteDocument(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := r.store.RemoveObject(ctx, key); err != nil {
		return mapObjectError(err)
	}
	return nil
}

func (r *minioRepository) DocumentExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}
	_, err := r.store.StatObject(ctx, key)
	if err != nil {
		if mapObjectError(err) == ErrDocumentNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *minioRepository) GetDocumentInfo(ctx context.Context, key string) (*DocumentInfo, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	info, err := r.store.StatObject(ctx, key)
	if err != nil {
		return nil, mapObjectError(err)
	}
	return &DocumentInfo{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (r *minioRepository) ListDocuments(ctx context.Context, prefix string, limit int) ([]*DocumentInfo, error) {
	var out []*DocumentInfo
	for obj := range r.store.ListObjects(ctx, prefix) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeInternal, "failed to list documents")
		}
		out = append(out, &DocumentInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *minioRepository) PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	return r.store.PresignedGetURL(ctx, key, expiry)
}

// mapObjectError normalizes minio "no such key" responses into
// ErrDocumentNotFound.
func mapObjectError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return ErrDocumentNotFound
	}
	return err
}
