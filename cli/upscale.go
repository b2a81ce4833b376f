package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pixelstudio/export"
	"pixelstudio/parallel"
	"pixelstudio/pixbuf"
	"pixelstudio/upscale"

	"github.com/alecthomas/kong"
)

type UpscaleCmd struct {
	Scan   string   `help:"Source folder to scan when no files are given" default:"."`
	Dest   string   `help:"Destination folder for upscaled pictures. Relative to scan dir if not absolute." default:"upscaled"`
	Scale  float64  `help:"Scale factor applied to both axes" default:"2"`
	Filter string   `help:"Resampling filter" enum:"bilinear,catmullrom,mitchell" default:"catmullrom"`
	Files  []string `arg:"" optional:"" help:"Images to upscale" type:"existingfile"`

	filter upscale.Filter `kong:"-"`
}

func (c *UpscaleCmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Scale < 1 {
		return fmt.Errorf("invalid scale: %v", c.Scale)
	}

	if c.filter, err = upscale.ParseFilter(c.Filter); err != nil {
		return err
	}

	return nil
}

func (c *UpscaleCmd) Run(ctx context.Context, pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := c.inputs()
	if err != nil {
		return err
	}

	opts := upscale.Options{Scale: c.Scale, Filter: c.filter}
	for _, filePath := range files {
		pool.Submit(func() error {
			logger := slog.Default().With("file", filePath)
			if err := c.upscaleFile(ctx, logger, filePath, opts); err != nil {
				logger.Error("could not upscale image", "error", err)
				return err
			}
			return nil
		})
	}

	stats := pool.Wait()
	slog.Info("stats", "processed", stats.Processed, "errors", stats.Failed, "total", stats.Total())

	if stats.Failed > 0 {
		return fmt.Errorf("error processing %d files", stats.Failed)
	}
	return nil
}

func (c *UpscaleCmd) inputs() ([]string, error) {
	if len(c.Files) > 0 {
		return c.Files, nil
	}

	entries, err := os.ReadDir(c.Scan)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(c.Scan, entry.Name()))
	}
	return files, nil
}

func (c *UpscaleCmd) upscaleFile(ctx context.Context, logger *slog.Logger, filePath string, opts upscale.Options) error {
	src, err := decodeFile(ctx, filePath)
	if err != nil {
		return err
	}

	logger.Info("upscaling", "width", src.Width, "height", src.Height, "scale", opts.Scale, "filter", opts.Filter)
	out, err := upscale.Upscale(src, opts)
	if err != nil {
		return fmt.Errorf("could not upscale: %w", err)
	}

	destName := export.Name(export.PrefixUpscaled, stem(filePath), time.Now())
	if err := export.SavePNG(out, c.Dest, destName); err != nil {
		return err
	}
	logger.Info("saved", "dest", filepath.Join(c.Dest, destName), "width", out.Width, "height", out.Height)
	return nil
}

func decodeFile(ctx context.Context, name string) (*pixbuf.Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "name", name, "error", closeErr)
		}
	}()

	buf, _, err := pixbuf.Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	return buf, nil
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
