package notifier

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

func wait(t *testing.T, l *Listener) {
	t.Helper()

	select {
	case <-l.Ready():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("listener was not woken")
	}
}

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	l := n.Subscribe()
	require.NotNil(t, l)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(l)
	assert.Equal(t, 0, n.Len())

	_, open := <-l.Ready()
	assert.False(t, open, "unsubscribed listener should be closed")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	l1 := n.Subscribe()
	l2 := n.Subscribe()
	defer n.Unsubscribe(l1)
	defer n.Unsubscribe(l2)

	n.Broadcast("/data/sales.csv")

	for _, l := range []*Listener{l1, l2} {
		wait(t, l)
		assert.Equal(t, []string{"/data/sales.csv"}, l.Drain())
	}
}

func TestNotifier_Broadcast_KeepsEveryPendingPath(t *testing.T) {
	n := New()

	l := n.Subscribe()
	defer n.Unsubscribe(l)

	n.Broadcast("/data/sales.csv")
	n.Broadcast("/data/processed_dataset.csv")
	n.Broadcast("/data/sales.csv")

	wait(t, l)
	assert.Equal(t, []string{"/data/sales.csv", "/data/processed_dataset.csv"}, l.Drain())
	assert.Empty(t, l.Drain(), "drain clears pending paths")

	select {
	case <-l.Ready():
		t.Fatal("a single wake-up covers all pending paths")
	default:
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	l := n.Subscribe()
	defer n.Unsubscribe(l)

	done := make(chan struct{})
	go func() {
		for range 10 {
			n.Broadcast("x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on an undrained listener")
	}
	assert.Equal(t, []string{"x"}, l.Drain())
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := n.Subscribe()
			n.Broadcast("x")
			n.Unsubscribe(l)
		}()
	}

	wg.Wait()

	assert.Equal(t, 0, n.Len())
}
