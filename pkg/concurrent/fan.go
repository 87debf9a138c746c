package concurrent

type FanInFanOut[T JobI, G any] struct {
	inputs chan T
}

func NewFanInFanOut[T JobI, G any](inputsSize int) *FanInFanOut[T, G] {
	return &FanInFanOut[T, G]{
		inputs: make(chan T, inputsSize),
	}
}

func (ff *FanInFanOut[T, G]) GeneratePipeline(job []T) {
	for _, j := range job {
		ff.inputs <- j
	}
	close(ff.inputs)
}

func (ff *FanInFanOut[T, G]) DoJob(jobFunc JobFunc[T, G]) <-chan G {
	out := make(chan G)
	go func() {
		for job := range ff.inputs {
			out <- jobFunc(job)
		}
		close(out)
	}()
	return out
}

func (ff *FanInFanOut[T, G]) FanOut(goroutinesNum int, jobFunc JobFunc[T, G]) []<-chan G {
	outs := make([]<-chan G, goroutinesNum)
	for i := 0; i < goroutinesNum; i++ {
		outs[i] = ff.DoJob(jobFunc)
	}
	return outs
}

// FanIn consumes the output channels one after the other. Every channel must be drained by
// consumeFunc, otherwise the producing goroutine blocks.
func (ff *FanInFanOut[T, G]) FanIn(consumeFunc ConsumeFunc[G], cs ...<-chan G) error {
	for _, resVal := range cs {
		err := consumeFunc(resVal)
		if err != nil {
			return err
		}
	}
	return nil
}
