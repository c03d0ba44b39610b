/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package pool provides the default types.Pool implementation the
// interpreter uses to fan out per-message stage evaluation across a bounded
// number of goroutines.
//
// Note: this file is inspired by:
// Valyala, A. (2023) workerpool.go (Version 1.48.0)
// [Source code]. https://github.com/valyala/fasthttp/blob/master/workerpool.go
// 1. Changed the Serve(c net.Conn) method to Submit(fn func()) error.
package pool

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// WorkerPool serves submitted functions using a pool of workers kept in
// FILO order. The most recently idled worker serves the next function,
// which keeps CPU caches hot under steady load.
type WorkerPool struct {
	// MaxWorkersCount bounds how many workers the pool will ever create.
	// With zero, no worker is ever created and every Submit fails.
	MaxWorkersCount int

	// MaxIdleWorkerDuration is how long a worker may sit idle before the
	// cleanup goroutine terminates it. Defaults to 10 seconds.
	MaxIdleWorkerDuration time.Duration

	lock sync.Mutex

	workersCount int
	mustStop     bool
	ready        []*workerChan

	stopCh chan struct{}

	workerChanPool sync.Pool
	startOnce      sync.Once
}

type workerChan struct {
	lastUseTime time.Time
	ch          chan func()
}

// Start launches the cleanup goroutine and prepares the pool for Submit.
// Safe to call more than once; only the first call has effect.
func (wp *WorkerPool) Start() {
	if wp.stopCh != nil {
		return
	}
	wp.startOnce.Do(func() {
		wp.stopCh = make(chan struct{})
		stopCh := wp.stopCh

		wp.workerChanPool.New = func() interface{} {
			return &workerChan{
				ch: make(chan func(), workerChanCap),
			}
		}

		go func() {
			var scratch []*workerChan
			for {
				wp.clean(&scratch)
				select {
				case <-stopCh:
					return
				default:
					time.Sleep(wp.getMaxIdleWorkerDuration())
				}
			}
		}()
	})
}

// Stop ends the cleanup goroutine and signals idle workers to terminate.
// Busy workers finish their current task before noticing wp.mustStop.
// Submit still works after Stop while the pool is under MaxWorkersCount:
// each call starts a worker that exits once its function returns.
func (wp *WorkerPool) Stop() {
	if wp.stopCh == nil {
		return
	}

	close(wp.stopCh)
	wp.stopCh = nil

	wp.lock.Lock()
	ready := wp.ready
	for i := range ready {
		ready[i].ch <- nil
		ready[i] = nil
	}
	wp.ready = ready[:0]
	wp.mustStop = true
	wp.lock.Unlock()
}

// Release is an alias for Stop, satisfying types.Pool.
func (wp *WorkerPool) Release() {
	wp.Stop()
}

func (wp *WorkerPool) getMaxIdleWorkerDuration() time.Duration {
	if wp.MaxIdleWorkerDuration <= 0 {
		return 10 * time.Second
	}
	return wp.MaxIdleWorkerDuration
}

// clean removes idle workers that exceeded MaxIdleWorkerDuration, using
// binary search over the FILO-ordered ready list (oldest entries sort
// first) to find the cutoff in O(log n).
func (wp *WorkerPool) clean(scratch *[]*workerChan) {
	maxIdleWorkerDuration := wp.getMaxIdleWorkerDuration()
	criticalTime := time.Now().Add(-maxIdleWorkerDuration)

	wp.lock.Lock()
	ready := wp.ready
	n := len(ready)

	l, r, mid := 0, n-1, 0
	for l <= r {
		mid = (l + r) / 2
		if criticalTime.After(wp.ready[mid].lastUseTime) {
			l = mid + 1
		} else {
			r = mid - 1
		}
	}
	i := r
	if i == -1 {
		wp.lock.Unlock()
		return
	}

	*scratch = append((*scratch)[:0], ready[:i+1]...)
	m := copy(ready, ready[i+1:])
	for i = m; i < n; i++ {
		ready[i] = nil
	}
	wp.ready = ready[:m]
	wp.lock.Unlock()

	// Notify obsolete workers outside wp.lock: ch.ch may block if workers
	// are parked on non-local CPUs.
	tmp := *scratch
	for i := range tmp {
		tmp[i].ch <- nil
		tmp[i] = nil
	}
}

// Submit queues fn for execution by an idle worker, or spawns a new one if
// the pool has not reached MaxWorkersCount. Returns an error if neither is
// possible.
func (wp *WorkerPool) Submit(fn func()) error {
	ch := wp.getCh()
	if ch == nil {
		return errors.New("no idle workers")
	}
	ch.ch <- fn
	return nil
}

// workerChanCap picks 0 (blocking) under GOMAXPROCS=1 for immediate
// handoff, or 1 (buffered) otherwise so a CPU-bound worker can't stall the
// submitter.
var workerChanCap = func() int {
	if runtime.GOMAXPROCS(0) == 1 {
		return 0
	}
	return 1
}()

func (wp *WorkerPool) getCh() *workerChan {
	var ch *workerChan
	createWorker := false

	wp.lock.Lock()
	ready := wp.ready
	n := len(ready) - 1
	if n < 0 {
		if wp.workersCount < wp.MaxWorkersCount {
			createWorker = true
			wp.workersCount++
		}
	} else {
		ch = ready[n]
		ready[n] = nil
		wp.ready = ready[:n]
	}
	wp.lock.Unlock()

	if ch == nil {
		if !createWorker {
			return nil
		}
		vch := wp.workerChanPool.Get()
		ch = vch.(*workerChan)
		go func() {
			wp.workerFunc(ch)
			wp.workerChanPool.Put(vch)
		}()
	}
	return ch
}

func (wp *WorkerPool) release(ch *workerChan) bool {
	ch.lastUseTime = time.Now()

	wp.lock.Lock()
	if wp.mustStop {
		wp.lock.Unlock()
		return false
	}
	wp.ready = append(wp.ready, ch)
	wp.lock.Unlock()
	return true
}

func (wp *WorkerPool) workerFunc(ch *workerChan) {
	var fn func()
	for fn = range ch.ch {
		if fn == nil {
			break
		}

		fn()
		fn = nil

		if !wp.release(ch) {
			break
		}
	}

	wp.lock.Lock()
	wp.workersCount--
	wp.lock.Unlock()
}
