package concurrent

import "sync"

// BackgroundWorker runs jobFunc for every triggered job on a fixed number of goroutines.
// Results are dropped, jobs write their output themselves.
type BackgroundWorker[T JobI, G any] struct {
	workers   int
	msgC      chan T
	waitGroup sync.WaitGroup
	jobFunc   JobFunc[T, G]
}

func NewBackgroundWorker[T JobI, G any](workers, buffer int, jobFunc JobFunc[T, G]) *BackgroundWorker[T, G] {
	if workers < 1 {
		workers = 1
	}
	return &BackgroundWorker[T, G]{
		workers: workers,
		msgC:    make(chan T, buffer),
		jobFunc: jobFunc,
	}
}

func (bw *BackgroundWorker[T, G]) TriggerProcessing(jobData T) {
	bw.msgC <- jobData
}

func (bw *BackgroundWorker[T, G]) Start() {

	bw.waitGroup.Add(bw.workers)
	for i := 0; i < bw.workers; i++ {
		go func() {
			defer bw.waitGroup.Done()
			for jobData := range bw.msgC {
				// process
				bw.jobFunc(jobData)
			}
		}()
	}
}

// Close waits until every triggered job is done.
func (bw *BackgroundWorker[T, G]) Close() {
	close(bw.msgC)
	bw.waitGroup.Wait()
}
