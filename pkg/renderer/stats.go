package renderer

import "time"

// WorkerStats contains what a single worker contributed to a render
type WorkerStats struct {
	WorkerID int           // Index of the worker in the pool
	Rows     int           // Scanlines rendered
	Samples  int           // Camera rays traced
	Busy     time.Duration // Time spent rendering rows
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int
	TotalSamples    int           // Camera rays traced across all workers
	Duration        time.Duration // Wall time from first task to last result
	Workers         []WorkerStats // One entry per worker, ordered by ID
}

// TotalPixels returns the number of pixels in the frame
func (s RenderStats) TotalPixels() int {
	return s.Width * s.Height
}

// SamplesPerSecond returns the camera-ray throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Share returns the fraction of the frame's rows rendered by w
func (w WorkerStats) Share(totalRows int) float64 {
	if totalRows == 0 {
		return 0
	}
	return float64(w.Rows) / float64(totalRows)
}

// addRow records a finished scanline against its worker
func (s *RenderStats) addRow(result RowResult) {
	worker := &s.Workers[result.WorkerID]
	worker.Rows++
	worker.Samples += result.Samples
	worker.Busy += result.Elapsed
	s.TotalSamples += result.Samples
}
