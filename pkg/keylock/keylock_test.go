package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockSerializesSameKey(t *testing.T) {
	kl := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("user-a")
			defer kl.Unlock("user-a")
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 100, counter)
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	kl := New()

	kl.Lock("user-a")
	done := make(chan struct{})
	go func() {
		kl.Lock("user-b")
		kl.Unlock("user-b")
		close(done)
	}()
	<-done
	kl.Unlock("user-a")
}

func TestEntryRemovedAfterLastRelease(t *testing.T) {
	kl := New()
	kl.Lock("user-a")
	kl.Unlock("user-a")

	kl.mu.Lock()
	defer kl.mu.Unlock()
	require.Empty(t, kl.locks)
}
