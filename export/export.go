package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pixelstudio/pixbuf"
)

const (
	PrefixUpscaled = "upscaled"
	PrefixErased   = "magic-eraser"
)

// Name builds a timestamped PNG file name such as upscaled-1700000000000.png.
// A non-empty stem is put in front to keep batch outputs apart.
func Name(prefix, stem string, now time.Time) string {
	if stem == "" {
		return fmt.Sprintf("%s-%d.png", prefix, now.UnixMilli())
	}
	return fmt.Sprintf("%s-%s-%d.png", stem, prefix, now.UnixMilli())
}

// SavePNG writes buf to destDir/destName. The file is written under a
// temporary name first and only renamed once fully flushed.
func SavePNG(buf *pixbuf.Buffer, destDir, destName string) (err error) {
	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = pixbuf.EncodePNG(outFile, buf); err != nil {
		return fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
	}

	canRename = true
	return nil
}
