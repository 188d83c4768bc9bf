package pool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := New(4)

	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		p.Go(func() {
			ran.Add(1)
		})
	}
	p.Wait()

	assert.Equal(t, int32(20), ran.Load())
}

func TestPoolHonorsBound(t *testing.T) {
	p := New(2)

	var (
		running atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 10; i++ {
		p.Go(func() {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
		})
	}
	p.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(0), running.Load())
}

func TestGoDoesNotBlockCaller(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	p.Go(func() { <-release })

	start := time.Now()
	p.Go(func() {})
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	close(release)
	p.Wait()
}

func TestNewClampsSize(t *testing.T) {
	p := New(0)

	done := make(chan struct{})
	p.Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran on zero-sized pool")
	}
}

func TestSharedIsSingleton(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}
