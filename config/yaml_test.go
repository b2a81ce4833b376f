package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Workers int `default:"1"`

	Upscale struct {
		Scale float64 `default:"2"`
		Dest  string  `default:"out"`
	} `cmd:""`

	Erase struct {
		Brush     int  `default:"20"`
		MaskWidth int  `default:"0"`
		Verbose   bool `default:"false"`
	} `cmd:""`
}

func parse(t *testing.T, yml string, args ...string) *testCLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(Loader, path), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestLoaderTopLevelAndSection(t *testing.T) {
	yml := strings.Join([]string{
		"workers: 3",
		"scale: 9",
		"upscale:",
		"  scale: 4",
	}, "\n")

	cli := parse(t, yml, "upscale")
	assert.Equal(t, 3, cli.Workers)
	assert.Equal(t, 4.0, cli.Upscale.Scale)
	assert.Equal(t, "out", cli.Upscale.Dest)
}

func TestLoaderFlagsWin(t *testing.T) {
	cli := parse(t, "upscale:\n  scale: 4\n", "upscale", "--scale=5")
	assert.Equal(t, 5.0, cli.Upscale.Scale)
}

func TestLoaderSnakeCaseAndBools(t *testing.T) {
	cli := parse(t, "erase:\n  mask_width: 640\n  verbose: true\n  brush: 35\n", "erase")
	assert.Equal(t, 640, cli.Erase.MaskWidth)
	assert.True(t, cli.Erase.Verbose)
	assert.Equal(t, 35, cli.Erase.Brush)
}

func TestLoaderEmptyDocument(t *testing.T) {
	cli := parse(t, "", "upscale")
	assert.Equal(t, 2.0, cli.Upscale.Scale)
	assert.Equal(t, 1, cli.Workers)
}

func TestLoaderRejectsMalformed(t *testing.T) {
	_, err := Loader(strings.NewReader("workers: [1, 2"))
	assert.Error(t, err)
}
