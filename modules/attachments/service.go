package attachments

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// MaxFileSize bounds a single upload.
const MaxFileSize = 10 << 20 // 10 MiB

// codeLength is the length of the random code prefixing each stored object.
const codeLength = 12

// allowedExtensions maps accepted file extensions to the content types a
// client may declare for them.
var allowedExtensions = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".pdf":  {"application/pdf"},
}

// Stored describes a successfully stored attachment.
type Stored struct {
	Name        string
	URL         string
	Size        int64
	ContentType string
}

// Service validates and stores uploaded attachments. Each upload gets a
// random nanoid code so two files with the same name never collide, and the
// resulting URL embeds both code and original name.
type Service struct {
	store   ObjectStore
	newCode func() string
}

// NewService creates an attachment service over the given backend.
func NewService(store ObjectStore) (*Service, error) {
	newCode, err := nanoid.Standard(codeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create code generator: %w", err)
	}
	return &Service{store: store, newCode: newCode}, nil
}

// Store validates and persists one upload, returning the URL clients use to
// fetch it back.
func (s *Service) Store(ctx context.Context, name string, data []byte, contentType string) (*Stored, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	name = sanitizeName(name)
	resolved, err := resolveContentType(name, contentType)
	if err != nil {
		return nil, err
	}

	code := s.newCode()
	info, err := s.store.Put(ctx, code+"/"+name, data, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	return &Stored{
		Name:        name,
		URL:         fmt.Sprintf("/uploads/%s/%s", code, name),
		Size:        int64(info.Size),
		ContentType: resolved,
	}, nil
}

// Open fetches a stored attachment by its code and original name.
func (s *Service) Open(ctx context.Context, code, name string) ([]byte, string, error) {
	if code == "" || name == "" {
		return nil, "", ErrAttachmentNotFound
	}

	data, info, err := s.store.Get(ctx, code+"/"+sanitizeName(name))
	if err != nil {
		return nil, "", err
	}
	return data, info.ContentType, nil
}

// sanitizeName strips any path component a client smuggled into the name.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Base(name)
}

// resolveContentType checks the extension against the allowed set and
// returns the content type to store. A missing or generic declared type
// falls back to the canonical type for the extension.
func resolveContentType(name, declared string) (string, error) {
	ext := strings.ToLower(path.Ext(name))
	accepted, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	if declared == "" || declared == "application/octet-stream" {
		return accepted[0], nil
	}
	for _, ct := range accepted {
		if declared == ct {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: %s declared as %s", ErrUnsupportedFileType, ext, declared)
}
