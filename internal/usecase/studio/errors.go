package studio

import "errors"

var (
	ErrExportInProgress = errors.New("export run in progress")
	ErrNoImages         = errors.New("no images loaded")
	ErrNoPreview        = errors.New("no preview image selected")
	ErrUnknownPreset    = errors.New("unknown preset position")
	ErrUnsupportedFile  = errors.New("unsupported image file")
)
