package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pixelstudio/eraser"
	"pixelstudio/export"
	"pixelstudio/pixbuf"
	"pixelstudio/session"

	"github.com/alecthomas/kong"
)

type EraseCmd struct {
	Image      string   `arg:"" help:"Image to remove objects from" type:"existingfile"`
	Mask       string   `help:"Mask image; pixels with red above 100 are erased" type:"existingfile" group:"mask"`
	Stroke     []string `help:"Brush stroke as x0,y0,x1,y1 (or x,y for a dab) in mask coordinates. Repeatable." sep:"none" group:"mask"`
	MaskWidth  int      `help:"Width the strokes were drawn at. Defaults to the image width." group:"mask"`
	MaskHeight int      `help:"Height the strokes were drawn at. Defaults to the image height." group:"mask"`
	Brush      int      `help:"Brush size in mask pixels" default:"20"`
	Passes     int      `help:"Number of erase passes, each one editing the previous result" default:"1"`
	Dest       string   `help:"Destination folder" default:"."`

	strokes []eraser.Stroke `kong:"-"`
}

func (c *EraseCmd) Validate(kctx *kong.Context) error {
	switch {
	case c.Mask == "" && len(c.Stroke) == 0:
		return fmt.Errorf("either --mask or at least one --stroke is required")
	case c.Mask != "" && len(c.Stroke) > 0:
		return fmt.Errorf("--mask and --stroke are mutually exclusive")
	case c.Brush < eraser.MinBrushSize || c.Brush > eraser.MaxBrushSize:
		return fmt.Errorf("invalid brush size %d, should be between %d and %d", c.Brush, eraser.MinBrushSize, eraser.MaxBrushSize)
	case c.Passes < 1:
		return fmt.Errorf("invalid number of passes: %d", c.Passes)
	case c.MaskWidth < 0 || c.MaskHeight < 0:
		return fmt.Errorf("invalid mask size: %dx%d", c.MaskWidth, c.MaskHeight)
	}

	c.strokes = c.strokes[:0]
	for _, s := range c.Stroke {
		stroke, err := parseStroke(s, float64(c.Brush)/2)
		if err != nil {
			return err
		}
		c.strokes = append(c.strokes, stroke)
	}

	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	c.Dest = dest

	return nil
}

func (c *EraseCmd) Run(ctx context.Context) error {
	logger := slog.Default().With("file", c.Image)
	s := session.New(logger)

	f, err := os.Open(c.Image)
	if err != nil {
		return fmt.Errorf("could not open image %q: %w", c.Image, err)
	}
	err = s.Upload(ctx, f)
	if closeErr := f.Close(); closeErr != nil {
		logger.Error("could not close image", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not load image %q: %w", c.Image, err)
	}

	src := s.Source()
	mask, err := c.buildMask(ctx, src.Width, src.Height)
	if err != nil {
		return err
	}
	logger.Info("mask ready", "width", mask.Width(), "height", mask.Height(), "painted", mask.Coverage(), "brush", c.Brush)

	var out *pixbuf.Buffer
	for pass := range c.Passes {
		if pass > 0 {
			if err := s.EditMore(); err != nil {
				return err
			}
		}
		if out, err = s.Erase(ctx, mask, c.Brush); err != nil {
			return fmt.Errorf("could not erase, pass %d: %w", pass+1, err)
		}
	}

	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}
	destName := export.Name(export.PrefixErased, stem(c.Image), time.Now())
	if err := export.SavePNG(out, c.Dest, destName); err != nil {
		return err
	}

	logger.Info("saved", "dest", filepath.Join(c.Dest, destName), "passes", c.Passes)
	return nil
}

func (c *EraseCmd) buildMask(ctx context.Context, width, height int) (*eraser.Mask, error) {
	if c.Mask != "" {
		buf, err := decodeFile(ctx, c.Mask)
		if err != nil {
			return nil, fmt.Errorf("could not load mask %q: %w", c.Mask, err)
		}
		return eraser.MaskFromImage(buf)
	}

	if c.MaskWidth > 0 {
		width = c.MaskWidth
	}
	if c.MaskHeight > 0 {
		height = c.MaskHeight
	}

	mask := eraser.NewMask(width, height)
	mask.Paint(c.strokes...)
	return mask, nil
}

func parseStroke(s string, radius float64) (eraser.Stroke, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2 && len(fields) != 4 {
		return eraser.Stroke{}, fmt.Errorf("invalid stroke %q, should be x0,y0,x1,y1 or x,y", s)
	}

	coords := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return eraser.Stroke{}, fmt.Errorf("invalid stroke %q: %w", s, err)
		}
		coords[i] = v
	}

	stroke := eraser.Stroke{
		From:   eraser.Point{X: coords[0], Y: coords[1]},
		To:     eraser.Point{X: coords[0], Y: coords[1]},
		Radius: radius,
	}
	if len(coords) == 4 {
		stroke.To = eraser.Point{X: coords[2], Y: coords[3]}
	}
	return stroke, nil
}
