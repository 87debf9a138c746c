package concurrent

type JobI interface {
	any
}

type JobFunc[T JobI, G any] func(job T) G

type ConsumeFunc[G any] func(resChan <-chan G) error
