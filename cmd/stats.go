package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

func displayRenderStats(stats renderer.RenderStats) {
	logger.Noticef("frame statistics\n%s", formatRenderStats(stats))
}

func formatRenderStats(stats renderer.RenderStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "Samples", "% of frame", "Busy time"})
	for _, w := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", w.WorkerID),
			fmt.Sprintf("%d", w.Rows),
			fmt.Sprintf("%d", w.Samples),
			fmt.Sprintf("%02.1f %%", 100*w.Share(stats.Height)),
			w.Busy.String(),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d spp", stats.SamplesPerPixel),
		fmt.Sprintf("%d", stats.TotalSamples),
		"TOTAL",
		stats.Duration.String(),
	})

	table.Render()
	return buf.String()
}
