package renderer

import "errors"

var (
	ErrNoScene           = errors.New("renderer: no scene defined")
	ErrInvalidSamples    = errors.New("renderer: samples per pixel must be positive")
	ErrInvalidDepth      = errors.New("renderer: max depth must not be negative")
	ErrInvalidDimensions = errors.New("renderer: image width and aspect ratio must be positive")
)
