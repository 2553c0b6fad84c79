package runloop

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// wait posts a barrier and blocks until the loop has drained everything
// scheduled before it.
func wait(t *testing.T, l *Loop) {
	t.Helper()
	done := make(chan struct{})
	l.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not drain in time")
	}
}

func TestPostRunsInOrder(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	var mu sync.Mutex
	var got []int
	for i := range 10 {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	wait(t, l)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 10)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestIsCurrent(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	assert.False(t, l.IsCurrent())

	result := make(chan bool, 1)
	l.Post(func() { result <- l.IsCurrent() })

	select {
	case onLoop := <-result:
		assert.True(t, onLoop)
	case <-time.After(2 * time.Second):
		t.Fatal("posted function never ran")
	}
}

func TestAfterFires(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	fired := make(chan struct{})
	l.After(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestAfterStop(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	var mu sync.Mutex
	fired := false
	timer := l.After(100*time.Millisecond, func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	assert.True(t, timer.Stop())

	// Give a stopped timer time to misbehave.
	time.Sleep(150 * time.Millisecond)
	wait(t, l)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired)
}

func TestStopAfterFire(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	fired := make(chan struct{})
	timer := l.After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	assert.False(t, timer.Stop())
}

func TestStopDropsPending(t *testing.T) {
	l := NewLoop()
	l.Start()

	block := make(chan struct{})
	started := make(chan struct{})
	l.Post(func() {
		close(started)
		<-block
	})
	<-started

	var mu sync.Mutex
	ran := false
	l.Post(func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})

	close(block)
	l.Stop()

	mu.Lock()
	defer mu.Unlock()
	// The pending function may or may not have been reached before Stop;
	// what matters is that Stop returned with the loop goroutine gone and
	// nothing runs afterwards.
	_ = ran

	postStop := make(chan struct{}, 1)
	l.Post(func() { postStop <- struct{}{} })
	select {
	case <-postStop:
		t.Fatal("function ran on a stopped loop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartTwice(t *testing.T) {
	l := NewLoop()
	l.Start()
	l.Start()
	wait(t, l)
	l.Stop()
}
