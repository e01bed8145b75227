package attachments

import "errors"

var (
	// ErrUnsupportedFileType is returned for uploads outside the allowed
	// image/document set.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyFile is returned for zero-length uploads.
	ErrEmptyFile = errors.New("file data is empty")

	// ErrFileTooLarge is returned when an upload exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrAttachmentNotFound is returned when no stored object matches the
	// requested code and name.
	ErrAttachmentNotFound = errors.New("attachment not found")
)
