package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/encoder"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Shapes", "Size", "Samples", "Description"})
	for _, info := range scene.Builtins() {
		s := info.New()
		camera := renderer.NewCamera(s.CameraConfig)
		table.Append([]string{
			info.Name,
			strconv.Itoa(len(s.Shapes)),
			fmt.Sprintf("%dx%d", camera.Width(), camera.Height()),
			strconv.Itoa(s.SamplingConfig.SamplesPerPixel),
			info.Description,
		})
	}
	table.Render()

	formats := make([]string, 0, len(encoder.Formats()))
	for _, f := range encoder.Formats() {
		formats = append(formats, string(f))
	}
	_, err := fmt.Fprintf(ctx.App.Writer, "\noutput formats: %s\n", strings.Join(formats, ", "))
	return err
}
