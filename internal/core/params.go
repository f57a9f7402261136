package core

import (
	"errors"
	"fmt"
)

// InitParams is everything the engine needs for its one-time initialization.
type InitParams struct {
	Width       int    // Surface width in cells (or pixels on mobile)
	Height      int    // Surface height
	AppName     string // Application name, used for window titles and storage
	AssetPath   string // Location of the bundled assets
	StoragePath string // Writable directory for engine-owned files
	Locale      string // BCP 47 tag of the system locale, e.g. "en-US"
}

// ErrMissingSize is returned by Validate when the surface size is unknown.
var ErrMissingSize = errors.New("core: surface size not known")

// ErrMissingStorage is returned by Validate when no storage path was resolved.
var ErrMissingStorage = errors.New("core: storage path not set")

// Validate reports whether the parameters are complete enough to initialize.
func (p InitParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w (%dx%d)", ErrMissingSize, p.Width, p.Height)
	}
	if p.StoragePath == "" {
		return ErrMissingStorage
	}
	return nil
}
