package pixbuf

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidImage marks malformed, zero-size or undecodable input.
	ErrInvalidImage = errors.New("invalid image")
	// ErrProcessing marks a pixel buffer that could not be read or written
	// while an algorithm was running.
	ErrProcessing = errors.New("processing failed")
)

// Reclassify marks err with kind. Both kind and the sentinels already in
// err's chain stay matchable with errors.Is.
func Reclassify(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
