package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/cmd"
)

func newApp() *cli.App {
	// -v is the global verbosity switch
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render sphere scenes with Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene (see the scenes command) or a YAML/TOML scene file and
write the image to --out. The output format follows the file extension: ppm,
png, bmp, tif/tiff or webp.

With --watch the scene file is re-rendered every time it is saved.`,
			ArgsUsage: "[scene.yaml|scene.toml]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene",
					Value: "default",
					Usage: "built-in scene to render when no scene file is given",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width; height follows the scene's aspect ratio (0 keeps the scene's width)",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel (0 keeps the scene's value)",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: -1,
					Usage: "maximum bounces per path (-1 keeps the scene's value)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "random seed; the same seed always produces the same image",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers (0 uses one per CPU)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.ppm",
					Usage: "image filename for the rendered frame",
				},
				cli.BoolFlag{
					Name:  "watch",
					Usage: "re-render whenever the scene file changes",
				},
			},
			Action: cmd.Render,
		},
		{
			Name:  "serve",
			Usage: "render built-in scenes over HTTP",
			Description: `
GET /api/render?scene=<name>&width=&spp=&depth=&seed= streams progress as
server-sent events and finishes with a base64 PNG. GET /api/scenes lists the
built-in scenes.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "port to serve on",
				},
			},
			Action: cmd.Serve,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
