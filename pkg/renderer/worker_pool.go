package renderer

import (
	"runtime"
	"sync"
	"time"
)

// RowTask asks a worker to render one scanline
type RowTask struct {
	Row int
}

// RowResult reports a finished scanline
type RowResult struct {
	Row      int
	WorkerID int
	Samples  int           // Camera rays traced for the row
	Elapsed  time.Duration // Time the worker spent on the row
}

// RowFunc renders scanline row and returns the number of camera rays traced
type RowFunc func(row int) int

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual scanline tasks
type Worker struct {
	ID          int
	renderRow   RowFunc
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a pool of numWorkers workers for a frame of numRows
// scanlines. numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(renderRow RowFunc, numRows, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Queues hold a whole frame so submitting never blocks on collection
	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, numRows),
		resultQueue: make(chan RowResult, numRows),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			renderRow:   renderRow,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue and waits for the workers to drain it
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed scanline result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		start := time.Now()
		samples := w.renderRow(task.Row)

		w.resultQueue <- RowResult{
			Row:      task.Row,
			WorkerID: w.ID,
			Samples:  samples,
			Elapsed:  time.Since(start),
		}
	}
}
