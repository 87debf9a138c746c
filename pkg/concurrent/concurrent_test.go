package concurrent

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundWorker(t *testing.T) {
	var sum int64
	results := make([]int, 100)
	bw := NewBackgroundWorker[int, struct{}](4, 10, func(job int) struct{} {
		atomic.AddInt64(&sum, int64(job))
		results[job] = job * job
		return struct{}{}
	})
	bw.Start()
	for i := 0; i < 100; i++ {
		bw.TriggerProcessing(i)
	}
	bw.Close()

	assert.Equal(t, int64(4950), sum)
	assert.Equal(t, 81, results[9])
}

func TestFanInFanOut(t *testing.T) {
	jobs := []int{1, 2, 3, 4, 5, 6, 7}
	ff := NewFanInFanOut[int, int](len(jobs))
	ff.GeneratePipeline(jobs)
	outs := ff.FanOut(3, func(job int) int { return job * 10 })

	var got []int
	err := ff.FanIn(func(res <-chan int) error {
		for v := range res {
			got = append(got, v)
		}
		return nil
	}, outs...)
	require.NoError(t, err)

	sort.Ints(got)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70}, got)
}
