package locker_test

import (
	"sync"
	"testing"

	"go-foresthr/internal/shared/locker"

	"github.com/stretchr/testify/assert"
)

func TestAcquireSerializesSameKey(t *testing.T) {
	reg := locker.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := reg.Acquire("leave:abc")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	reg := locker.New()

	releaseA := reg.Acquire("employee:a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := reg.Acquire("employee:b")
		releaseB()
		close(done)
	}()

	<-done
}

func TestReleaseAllowsReacquire(t *testing.T) {
	reg := locker.New()

	release := reg.Acquire("sickleave:x")
	release()

	release = reg.Acquire("sickleave:x")
	release()
}
