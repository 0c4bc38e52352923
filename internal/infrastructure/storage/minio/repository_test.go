package minio

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

type mockObjectStore struct {
	bucket        string
	maxObjectSize int64

	getObjectFunc    func(ctx context.Context, key string) (io.ReadCloser, error)
	putObjectFunc    func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error)
	statObjectFunc   func(ctx context.Context, key string) (minio.ObjectInfo, error)
	removeObjectFunc func(ctx context.Context, key string) error
	listObjectsFunc  func(ctx context.Context, prefix string) <-chan minio.ObjectInfo
	presignedFunc    func(ctx context.Context, key string, expiry time.Duration) (string, error)
}

func (m *mockObjectStore) Bucket() string {
	if m.bucket == "" {
		return "documents"
	}
	return m.bucket
}

func (m *mockObjectStore) MaxObjectSize() int64 { return m.maxObjectSize }

func (m *mockObjectStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, key)
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (m *mockObjectStore) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, key, reader, size, contentType)
	}
	return minio.UploadInfo{Key: key, Size: size}, nil
}

func (m *mockObjectStore) StatObject(ctx context.Context, key string) (minio.ObjectInfo, error) {
	if m.statObjectFunc != nil {
		return m.statObjectFunc(ctx, key)
	}
	return minio.ObjectInfo{Key: key}, nil
}

func (m *mockObjectStore) RemoveObject(ctx context.Context, key string) error {
	if m.removeObjectFunc != nil {
		return m.removeObjectFunc(ctx, key)
	}
	return nil
}

func (m *mockObjectStore) ListObjects(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
	if m.listObjectsFunc != nil {
		return m.listObjectsFunc(ctx, prefix)
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func (m *mockObjectStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.presignedFunc != nil {
		return m.presignedFunc(ctx, key, expiry)
	}
	return "https://minio.local/documents/" + key, nil
}

func notFoundErr() error {
	return minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
}

func TestGetDocument_Success(t *testing.T) {
	content := []byte("Budget allocation: $150,000-$250,000 for Q3 2024")
	store := &mockObjectStore{
		statObjectFunc: func(ctx context.Context, key string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{
				Key:         key,
				Size:        int64(len(content)),
				ContentType: "text/plain",
				ETag:        "abc123",
			}, nil
		},
		getObjectFunc: func(ctx context.Context, key string) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	doc, err := repo.GetDocument(context.Background(), "reports/q3.txt")
	require.NoError(t, err)
	assert.Equal(t, "reports/q3.txt", doc.Key)
	assert.Equal(t, content, doc.Data)
	assert.Equal(t, "text/plain", doc.ContentType)
	assert.Equal(t, int64(len(content)), doc.Size)
}

func TestGetDocument_NotFound(t *testing.T) {
	store := &mockObjectStore{
		statObjectFunc: func(ctx context.Context, key string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, notFoundErr()
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	_, err := repo.GetDocument(context.Background(), "missing.txt")
	assert.Equal(t, ErrDocumentNotFound, err)
}

func TestGetDocument_EmptyKey(t *testing.T) {
	repo := NewDocumentRepository(&mockObjectStore{}, logging.NewNopLogger())

	_, err := repo.GetDocument(context.Background(), "")
	assert.Equal(t, ErrInvalidKey, err)
}

// The size limit is enforced from the stat, before any bytes are fetched.
func TestGetDocument_TooLarge(t *testing.T) {
	fetched := false
	store := &mockObjectStore{
		maxObjectSize: 100,
		statObjectFunc: func(ctx context.Context, key string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{Key: key, Size: 101}, nil
		},
		getObjectFunc: func(ctx context.Context, key string) (io.ReadCloser, error) {
			fetched = true
			return io.NopCloser(bytes.NewReader(nil)), nil
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	_, err := repo.GetDocument(context.Background(), "big.txt")
	assert.Equal(t, ErrDocumentTooLarge, err)
	assert.False(t, fetched)
}

func TestPutDocument_DetectsContentType(t *testing.T) {
	var gotContentType string
	store := &mockObjectStore{
		putObjectFunc: func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
			gotContentType = contentType
			return minio.UploadInfo{Key: key, Size: size, ETag: "e"}, nil
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	info, err := repo.PutDocument(context.Background(), "doc.txt", []byte("plain text content"), "")
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", info.Key)
	assert.Contains(t, gotContentType, "text/plain")
}

func TestPutDocument_TooLarge(t *testing.T) {
	store := &mockObjectStore{maxObjectSize: 4}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	_, err := repo.PutDocument(context.Background(), "doc.txt", []byte("12345"), "text/plain")
	assert.Equal(t, ErrDocumentTooLarge, err)
}

func TestDeleteDocument(t *testing.T) {
	removed := ""
	store := &mockObjectStore{
		removeObjectFunc: func(ctx context.Context, key string) error {
			removed = key
			return nil
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	require.NoError(t, repo.DeleteDocument(context.Background(), "doc.txt"))
	assert.Equal(t, "doc.txt", removed)

	assert.Equal(t, ErrInvalidKey, repo.DeleteDocument(context.Background(), ""))
}

func TestDocumentExists(t *testing.T) {
	store := &mockObjectStore{
		statObjectFunc: func(ctx context.Context, key string) (minio.ObjectInfo, error) {
			if key == "present.txt" {
				return minio.ObjectInfo{Key: key}, nil
			}
			return minio.ObjectInfo{}, notFoundErr()
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	exists, err := repo.DocumentExists(context.Background(), "present.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.DocumentExists(context.Background(), "absent.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetDocumentInfo(t *testing.T) {
	now := time.Now().UTC()
	store := &mockObjectStore{
		statObjectFunc: func(ctx context.Context, key string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{
				Key:          key,
				Size:         42,
				ContentType:  "text/plain",
				LastModified: now,
			}, nil
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	info, err := repo.GetDocumentInfo(context.Background(), "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Size)
	assert.Equal(t, now, info.LastModified)
}

func TestListDocuments_RespectsLimit(t *testing.T) {
	store := &mockObjectStore{
		listObjectsFunc: func(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 3)
			ch <- minio.ObjectInfo{Key: "a"}
			ch <- minio.ObjectInfo{Key: "b"}
			ch <- minio.ObjectInfo{Key: "c"}
			close(ch)
			return ch
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	docs, err := repo.ListDocuments(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestListDocuments_PropagatesStreamError(t *testing.T) {
	store := &mockObjectStore{
		listObjectsFunc: func(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 1)
			ch <- minio.ObjectInfo{Err: assert.AnError}
			close(ch)
			return ch
		},
	}
	repo := NewDocumentRepository(store, logging.NewNopLogger())

	_, err := repo.ListDocuments(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestPresignedDownloadURL(t *testing.T) {
	repo := NewDocumentRepository(&mockObjectStore{}, logging.NewNopLogger())

	u, err := repo.PresignedDownloadURL(context.Background(), "doc.txt", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "doc.txt")

	_, err = repo.PresignedDownloadURL(context.Background(), "", time.Minute)
	assert.Equal(t, ErrInvalidKey, err)
}
