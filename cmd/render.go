package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/encoder"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/watcher"
)

var ErrWatchWithoutFile = errors.New("watch mode needs a scene file argument")

// RenderOptions collects the render command's flags. Zero Width and
// SamplesPerPixel and a negative MaxDepth keep the scene's own values.
type RenderOptions struct {
	SceneName       string
	SceneFile       string
	Width           int
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	Workers         int
	Out             string
}

func renderOptions(ctx *cli.Context) (RenderOptions, error) {
	if ctx.NArg() > 1 {
		return RenderOptions{}, fmt.Errorf("expected at most one scene file, got %d", ctx.NArg())
	}
	return RenderOptions{
		SceneName:       ctx.String("scene"),
		SceneFile:       ctx.Args().First(),
		Width:           ctx.Int("width"),
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("depth"),
		Seed:            ctx.Int64("seed"),
		Workers:         ctx.Int("workers"),
		Out:             ctx.String("out"),
	}, nil
}

// Render a still frame, optionally re-rendering whenever the scene file changes.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	if !ctx.Bool("watch") {
		_, err := RenderScene(opts)
		return err
	}

	if opts.SceneFile == "" {
		return ErrWatchWithoutFile
	}
	return watchAndRender(opts)
}

// RenderScene loads the requested scene, renders it and writes the image
func RenderScene(opts RenderOptions) (renderer.RenderStats, error) {
	s, err := loadScene(opts)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	// Fail on a bad output name before spending time on the render
	if _, err := encoder.FormatFromPath(opts.Out); err != nil {
		return renderer.RenderStats{}, err
	}

	if opts.Width > 0 {
		s.CameraConfig.Width = opts.Width
	}
	if opts.SamplesPerPixel != 0 {
		s.SamplingConfig.SamplesPerPixel = opts.SamplesPerPixel
	}
	if opts.MaxDepth >= 0 {
		s.SamplingConfig.MaxDepth = opts.MaxDepth
	}
	s.Freeze()

	rt := renderer.NewRaytracer(s, s.RenderConfig(opts.Seed, opts.Workers), nil)
	frame, stats, err := rt.Render(progressLogger())
	if err != nil {
		return stats, err
	}

	if err := encoder.WriteFile(opts.Out, frame); err != nil {
		return stats, err
	}
	logger.Noticef("wrote %s", opts.Out)

	displayRenderStats(stats)
	return stats, nil
}

func loadScene(opts RenderOptions) (*scene.Scene, error) {
	if opts.SceneFile != "" {
		logger.Infof("loading scene file %s", opts.SceneFile)
		return loaders.LoadSceneFile(opts.SceneFile)
	}
	logger.Infof("using built-in scene %q", opts.SceneName)
	return scene.Lookup(opts.SceneName)
}

// progressLogger reports every tenth of the frame at Info level
func progressLogger() func(renderer.Progress) {
	lastDecile := 0
	return func(p renderer.Progress) {
		decile := p.RowsDone * 10 / p.TotalRows
		if decile > lastDecile {
			lastDecile = decile
			logger.Infof("scanlines %d/%d (%d%%)", p.RowsDone, p.TotalRows, decile*10)
		}
	}
}

func watchAndRender(opts RenderOptions) error {
	// A broken scene file is reported but keeps the watch alive
	if _, err := RenderScene(opts); err != nil {
		logger.Error(err)
	}

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(opts.SceneFile); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("watching %s for changes (ctrl-c to stop)", opts.SceneFile)
	err = fw.Run(ctx, func(path string) {
		logger.Noticef("%s changed, re-rendering", path)
		if _, err := RenderScene(opts); err != nil {
			logger.Error(err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
