package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseEvents splits a recorded SSE body into (event, data) pairs
func sseEvents(body string) [][2]string {
	var events [][2]string
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var event, data string
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
		events = append(events, [2]string{event, data})
	}
	return events
}

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestServer_Health(t *testing.T) {
	recorder := serve(t, "/api/health")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestServer_Scenes(t *testing.T) {
	recorder := serve(t, "/api/scenes")

	var summaries []SceneSummary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summaries))
	require.Len(t, summaries, 4)
	assert.Equal(t, "default", summaries[0].Name)
	assert.Positive(t, summaries[0].SamplesPerPixel)
}

func TestServer_Render(t *testing.T) {
	recorder := serve(t, "/api/render?scene=ground&width=16&spp=1&depth=2")
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))

	events := sseEvents(recorder.Body.String())
	require.NotEmpty(t, events)

	progressCount := 0
	for _, e := range events[:len(events)-1] {
		assert.Equal(t, "progress", e[0])
		progressCount++
	}
	assert.Equal(t, 9, progressCount, "one progress event per row at this size")

	last := events[len(events)-1]
	require.Equal(t, "complete", last[0])

	var result RenderResult
	require.NoError(t, json.Unmarshal([]byte(last[1]), &result))
	assert.Equal(t, 16, result.Stats.Width)
	assert.Equal(t, 9, result.Stats.Height)
	assert.Equal(t, 16*9, result.Stats.TotalSamples)

	data, err := base64.StdEncoding.DecodeString(result.ImageData)
	require.NoError(t, err)
	img, err := png.Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestServer_RenderInvalidRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=cornell-box"},
		{"width out of range", "scene=ground&width=0"},
		{"non-numeric spp", "scene=ground&spp=lots"},
		{"negative depth", "scene=ground&depth=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := sseEvents(serve(t, "/api/render?"+tt.query).Body.String())
			require.Len(t, events, 1)
			assert.Equal(t, "error", events[0][0])
		})
	}
}

// plainWriter is a ResponseWriter that cannot flush
type plainWriter struct {
	header http.Header
	body   bytes.Buffer
}

func (p *plainWriter) Header() http.Header         { return p.header }
func (p *plainWriter) Write(b []byte) (int, error) { return p.body.Write(b) }
func (p *plainWriter) WriteHeader(int)             {}

func TestServer_RenderWithoutFlusher(t *testing.T) {
	writer := &plainWriter{header: http.Header{}}
	request := httptest.NewRequest(http.MethodGet, "/api/render?scene=cornell-box", nil)
	NewServer(0).Handler().ServeHTTP(writer, request)

	events := sseEvents(writer.body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0][0])
	assert.Contains(t, events[0][1], "cornell-box")
}

func TestServer_ParseRenderRequestReturnsScene(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/render?scene=ground&spp=3", nil)
	req, sceneObj, err := NewServer(0).parseRenderRequest(request)
	require.NoError(t, err)
	require.NotNil(t, sceneObj)

	assert.Equal(t, "ground", req.Scene)
	assert.Equal(t, 3, req.SamplesPerPixel)
	assert.Equal(t, sceneObj.CameraConfig.Width, req.Width)
	assert.False(t, sceneObj.Frozen(), "request settings are applied before freezing")
}
