package main

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/celynwalters/hippostomp"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openCollection(c *cli.Context) (*hippostomp.Collection, error) {
	return hippostomp.Open(c.Args().First(), c.Int64("offset"), c.Bool("alpha"), newLogger(c))
}

func writeImage(name string, m image.Image, format string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "png":
		return png.Encode(f, m)
	case "bmp":
		return bmp.Encode(f, m)
	case "gif":
		return gif.Encode(f, m, &gif.Options{
			NumColors: 256,
			Quantizer: quantize.MedianCutQuantizer{},
		})
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "hippostomp"
	app.Usage = "Impressions .sg2/.sg3 asset extraction utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:    "alpha",
			EnvVars: []string{"HIPPOSTOMP_ALPHA"},
			Usage:   "records carry the trailing alpha-channel fields",
		},
		&cli.Int64Flag{
			Name:  "offset",
			Usage: "byte offset of the collection header within the metadata file",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Print the collection summary",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				col, err := openCollection(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Println(col.Header)

				return nil
			},
		},
		{
			Name:      "extract",
			Usage:     "Decode every image in a collection into a directory",
			ArgsUsage: "FILE DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Value: "png",
					Usage: "output image format (png, bmp or gif)",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 4,
					Usage: "number of concurrent decoders",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				col, err := openCollection(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				dir := c.Args().Get(1)
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return cli.Exit(err, 1)
				}

				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()

				format := c.String("format")
				for r := range col.Extract(ctx, c.Int("workers")) {
					if r.Err != nil {
						// Already logged; skip it and carry on with the rest.
						continue
					}
					name := filepath.Join(dir, fmt.Sprintf("%s_%05d.%s", col.Header.Name, r.Index, format))
					if err := writeImage(name, r.Image, format); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:      "catalog",
			Usage:     "Index a collection's records into a sqlite database",
			ArgsUsage: "FILE DB",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				col, err := openCollection(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				cat, err := hippostomp.OpenCatalog(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer cat.Close()

				if err := cat.AddCollection(col); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
