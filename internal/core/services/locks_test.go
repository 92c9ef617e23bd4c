package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockRegistry_ExclusiveWaitsForReaders(t *testing.T) {
	r := NewLockRegistry()
	key := periodLockKey("t1", "p1")

	release := r.RLock(key)
	acquired := make(chan struct{})
	go func() {
		unlock := r.Lock(key)
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("exclusive lock acquired while a reader holds the key")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("exclusive lock never acquired")
	}
}

func TestLockRegistry_KeysAreIndependent(t *testing.T) {
	r := NewLockRegistry()
	unlockA := r.Lock(entryLockKey("t1", "e1"))
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := r.Lock(entryLockKey("t2", "e1"))
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("same entry id in another tenant must not block")
	}
}

func TestLockRegistry_ReleasesKeys(t *testing.T) {
	r := NewLockRegistry()
	var wg sync.WaitGroup
	var inside, maxInside int32

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock("k")
			n := atomic.AddInt32(&inside, 1)
			if n > atomic.LoadInt32(&maxInside) {
				atomic.StoreInt32(&maxInside, n)
			}
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside)
	assert.Zero(t, r.size(), "idle keys are dropped")
}
