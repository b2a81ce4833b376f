package main

import (
	"context"
	"os"
	"os/signal"

	"pixelstudio/cli"
	"pixelstudio/config"
	"pixelstudio/parallel"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from this YAML file"`
	Workers int             `help:"Number of images processed in parallel, 0 uses all CPUs" default:"0"`

	Upscale cli.UpscaleCmd `cmd:"" help:"Enlarge images and sharpen the result"`
	Erase   cli.EraseCmd   `cmd:"" help:"Paint over objects and fill them from the surrounding pixels"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var app CLI
	kctx := kong.Parse(&app,
		kong.Name("pixelstudio"),
		kong.Description("Client-side image enhancement: upscaling and magic eraser."),
		kong.UsageOnError(),
		kong.Configuration(config.Loader, config.DefaultPath),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	pool := parallel.Start(app.Workers)
	err := kctx.Run(pool)
	pool.Wait()
	kctx.FatalIfErrorf(err)
}
