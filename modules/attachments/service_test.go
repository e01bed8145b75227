package attachments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService(NewMemoryObjectStore())
	require.NoError(t, err)
	return service
}

func TestService_StoreAndOpen(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	stored, err := service.Store(ctx, "photo.png", []byte("pngdata"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "photo.png", stored.Name)
	assert.Equal(t, "image/png", stored.ContentType)
	assert.Equal(t, int64(7), stored.Size)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(stored.URL, "/photo.png"))

	parts := strings.Split(stored.URL, "/")
	require.Len(t, parts, 4)
	code := parts[2]
	assert.Len(t, code, codeLength)

	data, contentType, err := service.Open(ctx, code, "photo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("pngdata"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestService_StoreValidation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		fileName    string
		data        []byte
		contentType string
		wantErr     error
	}{
		{
			name:        "executable rejected",
			fileName:    "malware.exe",
			data:        []byte("MZ"),
			contentType: "application/octet-stream",
			wantErr:     ErrUnsupportedFileType,
		},
		{
			name:        "extension without type allowed",
			fileName:    "scan.pdf",
			data:        []byte("%PDF"),
			contentType: "",
		},
		{
			name:        "mismatched declared type rejected",
			fileName:    "photo.jpg",
			data:        []byte("data"),
			contentType: "text/html",
			wantErr:     ErrUnsupportedFileType,
		},
		{
			name:        "content type with charset parameter",
			fileName:    "photo.jpeg",
			data:        []byte("data"),
			contentType: "image/jpeg; charset=binary",
		},
		{
			name:     "empty data rejected",
			fileName: "photo.png",
			data:     nil,
			wantErr:  ErrEmptyFile,
		},
		{
			name:        "no extension rejected",
			fileName:    "README",
			data:        []byte("text"),
			contentType: "image/png",
			wantErr:     ErrUnsupportedFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Store(ctx, tt.fileName, tt.data, tt.contentType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_StoreFallsBackToCanonicalType(t *testing.T) {
	service := newTestService(t)

	stored, err := service.Store(context.Background(), "scan.pdf", []byte("%PDF"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", stored.ContentType)
}

func TestService_StoreStripsPathComponents(t *testing.T) {
	service := newTestService(t)

	stored, err := service.Store(context.Background(), "../../etc/passwd.png", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "passwd.png", stored.Name)
	assert.NotContains(t, stored.URL, "..")
}

func TestService_StoreSizeLimit(t *testing.T) {
	service := newTestService(t)

	big := make([]byte, MaxFileSize+1)
	_, err := service.Store(context.Background(), "big.png", big, "image/png")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestService_SameNameDifferentCodes(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	first, err := service.Store(ctx, "pic.jpg", []byte("one"), "image/jpeg")
	require.NoError(t, err)
	second, err := service.Store(ctx, "pic.jpg", []byte("two"), "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first.URL, second.URL)

	code := strings.Split(first.URL, "/")[2]
	data, _, err := service.Open(ctx, code, "pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)
}

func TestService_OpenUnknown(t *testing.T) {
	service := newTestService(t)

	_, _, err := service.Open(context.Background(), "nosuchcode1234", "pic.jpg")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	_, _, err = service.Open(context.Background(), "", "pic.jpg")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}
