package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/pngxpm"
	"github.com/bodgit/pngxpm/xpm"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/webp"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// Parse the optional positional argument n, falling back to def when it is
// absent. An explicit value must be a positive integer.
func intArg(args []string, n int, name string, def int) (int, error) {
	if len(args) <= n {
		return def, nil
	}
	v, err := strconv.Atoi(args[n])
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, args[n])
	}
	return v, nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 {
		fmt.Fprintf(c.App.ErrWriter, "usage: %s %s\n", c.App.Name, c.App.ArgsUsage)
		return cli.NewExitError("", 1)
	}

	size, err := intArg(c.Args().Slice(), 2, "size", pngxpm.DefaultSize)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	colors, err := intArg(c.Args().Slice(), 3, "colors", xpm.DefaultColors)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	if err := pngxpm.New(logger).Convert(c.Args().Get(0), c.Args().Get(1), &pngxpm.Options{
		Size:           size,
		Colors:         colors,
		AlphaThreshold: c.Int("alpha-threshold"),
		Name:           c.String("name"),
		Filter:         c.String("filter"),
	}); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pngxpm"
	app.Usage = "Convert an image into an XPM icon"
	app.Version = "1.0.0"
	app.ArgsUsage = "<input.png> <output.pm> [size] [colors]"
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "alpha-threshold",
			Value: xpm.DefaultAlphaThreshold,
			Usage: "lowest alpha value treated as opaque",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "C identifier of the array (default derived from output filename)",
		},
		&cli.StringFlag{
			Name:  "filter",
			Value: pngxpm.DefaultFilter,
			Usage: "resampling filter, one of " + strings.Join(pngxpm.Filters(), ", "),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = convert

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
