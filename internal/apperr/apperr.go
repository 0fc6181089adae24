// Package apperr defines the recoverable error kinds shared by the viewer's
// packages. Callers wrap them with fmt.Errorf and "%w" and test with errors.Is.
package apperr

import "errors"

var (
	// ErrPathNotFound is returned when a requested file or directory does not
	// exist, or a file is not part of the image set built around it.
	ErrPathNotFound = errors.New("path not found")
	// ErrNotDirectory is returned when a directory listing is requested for a file.
	ErrNotDirectory = errors.New("not a directory")
	// ErrUnsupportedFormat is returned when an image cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrEmptySet is returned when an operation needs a current image and none is loaded.
	ErrEmptySet = errors.New("no images loaded")
	// ErrDeleteFailed is returned when moving a file to the trash or removing it fails.
	ErrDeleteFailed = errors.New("delete failed")

	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrInvalidZoom         = errors.New("zoom factor must be finite and positive")
	ErrInvalidRotation     = errors.New("rotation must be a multiple of 90 degrees")
	ErrNotNavigatorCommand = errors.New("command is handled by the presentation layer")
)
