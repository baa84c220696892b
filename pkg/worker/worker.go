package worker

type WorkerHandler = func(workerIndex int, job interface{})

// WorkerManager is a bounded pool of goroutines draining a shared job
// channel. Jobs are published with Enqueue; Close marks the end of input
// and Wait blocks until every published job has been handled. A manager
// is single-use: once closed it cannot be restarted.
type WorkerManager struct {
	bufferSize     int
	jobChannel     chan interface{}
	numberOfWorker int
	do             WorkerHandler
	done           chan struct{}
}

func NewWorkerManager(bufferSize, numberOfWorkers int) *WorkerManager {
	if numberOfWorkers <= 0 {
		numberOfWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}

	return &WorkerManager{
		bufferSize:     bufferSize,
		numberOfWorker: numberOfWorkers,
		jobChannel:     make(chan interface{}, bufferSize),
		done:           make(chan struct{}, numberOfWorkers),
	}
}

func (w *WorkerManager) SetWorker(worker WorkerHandler) {
	w.do = worker
}

// Enqueue publishes a job onto the channel. Blocks once the buffer is
// full until a worker frees a slot.
func (w *WorkerManager) Enqueue(val interface{}) {
	w.jobChannel <- val
}

func (w *WorkerManager) GetUnreadCount() int64 {
	return int64(len(w.jobChannel))
}

// Start launches the workers. They exit when the job channel is closed
// and drained.
func (w *WorkerManager) Start() {
	for i := 0; i < w.numberOfWorker; i++ {
		go func(index int) {
			for job := range w.jobChannel {
				w.do(index, job)
			}
			w.done <- struct{}{}
		}(i)
	}
}

// Close marks the end of input. No Enqueue may follow.
func (w *WorkerManager) Close() {
	close(w.jobChannel)
}

// Wait blocks until all workers have drained the channel and exited.
func (w *WorkerManager) Wait() {
	for i := 0; i < w.numberOfWorker; i++ {
		<-w.done
	}
}
