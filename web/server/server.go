package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("server")

// Server renders built-in scenes on request and streams progress over SSE
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Built-in scene name
	Width           int    `json:"width"`           // Image width; height follows the scene's aspect ratio
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel
	MaxDepth        int    `json:"maxDepth"`        // Maximum bounces per path
	Seed            int64  `json:"seed"`            // Sampling seed
}

// ProgressUpdate is sent after every tenth of the frame
type ProgressUpdate struct {
	RowsDone  int   `json:"rowsDone"`
	TotalRows int   `json:"totalRows"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// RenderResult is the final event of a render
type RenderResult struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	TotalSamples     int     `json:"totalSamples"`
	Workers          int     `json:"workers"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// SceneSummary describes a built-in scene for clients
type SceneSummary struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Width           int    `json:"width"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and their default settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	summaries := make([]SceneSummary, 0)
	for _, info := range scene.Builtins() {
		sc := info.New()
		summaries = append(summaries, SceneSummary{
			Name:            info.Name,
			Description:     info.Description,
			Width:           sc.CameraConfig.Width,
			SamplesPerPixel: sc.SamplingConfig.SamplesPerPixel,
			MaxDepth:        sc.SamplingConfig.MaxDepth,
		})
	}
	json.NewEncoder(w).Encode(summaries)
}

// handleRender renders one frame, streaming progress and the final PNG via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj.CameraConfig.Width = req.Width
	sceneObj.SamplingConfig.SamplesPerPixel = req.SamplesPerPixel
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	sceneObj.Freeze()

	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.RenderConfig(req.Seed, 0), logger)

	startTime := time.Now()
	lastDecile := 0
	frame, stats, err := raytracer.Render(func(p renderer.Progress) {
		if decile := p.RowsDone * 10 / p.TotalRows; decile > lastDecile {
			lastDecile = decile
			s.sendSSEJSON(w, "progress", ProgressUpdate{
				RowsDone:  p.RowsDone,
				TotalRows: p.TotalRows,
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
		}
	})
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}

	imageData, err := s.imageToBase64PNG(frame.ToRGBA())
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	s.sendSSEJSON(w, "complete", RenderResult{
		ImageData: imageData,
		Stats: Stats{
			Width:            stats.Width,
			Height:           stats.Height,
			SamplesPerPixel:  stats.SamplesPerPixel,
			TotalSamples:     stats.TotalSamples,
			Workers:          len(stats.Workers),
			SamplesPerSecond: stats.SamplesPerSecond(),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// parseRenderRequest parses request parameters, falling back to the scene's
// own settings. The scene is returned unfrozen so the request can be applied.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	req := &RenderRequest{Scene: "default"}
	if name := r.URL.Query().Get("scene"); name != "" {
		req.Scene = name
	}

	sceneObj, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	query := r.URL.Query()
	if req.Width, err = parseIntParam(query, "width", sceneObj.CameraConfig.Width, 1, 2000); err != nil {
		return nil, nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", sceneObj.SamplingConfig.SamplesPerPixel, 1, 10000); err != nil {
		return nil, nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", sceneObj.SamplingConfig.MaxDepth, 0, 1000); err != nil {
		return nil, nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, nil, err
	}
	req.Seed = int64(seed)

	// Performance warning
	if req.Width >= 800 && req.SamplesPerPixel > 100 {
		logger.Warningf("Render warning: width %d at %d spp may render slowly", req.Width, req.SamplesPerPixel)
	}

	return req, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("failed to encode %s event: %v", event, err)
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event, flushing it when the writer streams
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		logger.Warningf("failed to send %s event: %v", event, err)
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
