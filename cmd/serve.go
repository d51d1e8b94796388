package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/web/server"
)

// Serve renders built-in scenes over HTTP.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)
	return server.NewServer(ctx.Int("port")).Start()
}
