package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/dojo/internal/adapters/mq/queue"
	worker "github.com/okian/dojo/internal/adapters/mq/worker"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan chan queue.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan queue.Event, 10),
	}
}

func (mq *mockQueue) Dequeue(_ context.Context) <-chan queue.Event {
	return mq.eventChan
}

type mockRecorder struct {
	mu       sync.Mutex
	recorded []worker.Event
	err      error
}

func (mr *mockRecorder) Record(_ context.Context, e worker.Event) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if mr.err != nil {
		return mr.err
	}
	mr.recorded = append(mr.recorded, e)
	return nil
}

func (mr *mockRecorder) count() int {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return len(mr.recorded)
}

func TestWorker_ProcessesEvents(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{}
		w := worker.NewWorker(mq, rec, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When events arrive on the queue", func() {
			mq.eventChan <- worker.Event{EventID: "review_recorded:1"}
			mq.eventChan <- worker.Event{EventID: "review_recorded:2"}

			convey.Convey("Then the recorder should see them all", func() {
				deadline := time.Now().Add(2 * time.Second)
				for rec.count() < 2 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				convey.So(rec.count(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the queue channel closes", func() {
			close(mq.eventChan)

			convey.Convey("Then shutdown should complete promptly", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorker_RecorderErrors(t *testing.T) {
	convey.Convey("Given a worker with a failing recorder", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{err: errors.New("record failed")}
		w := worker.NewWorker(mq, rec)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an event arrives", func() {
			mq.eventChan <- worker.Event{EventID: "bad-event"}

			convey.Convey("Then the worker should keep running", func() {
				time.Sleep(50 * time.Millisecond)
				convey.So(rec.count(), convey.ShouldEqual, 0)

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorker_ContextCancellation(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{}
		w := worker.NewWorker(mq, rec)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()

		convey.Convey("When the context is canceled", func() {
			cancel()

			convey.Convey("Then the run loop should exit", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					convey.So("worker did not exit", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestPool_StartStop(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{}
		pool := worker.NewPool(3, mq, rec)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When events are produced", func() {
			for i := 0; i < 5; i++ {
				mq.eventChan <- worker.Event{EventID: "pooled"}
			}

			convey.Convey("Then all events are drained across the pool", func() {
				deadline := time.Now().Add(2 * time.Second)
				for rec.count() < 5 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				convey.So(rec.count(), convey.ShouldEqual, 5)

				pool.Stop()
			})
		})

		convey.Convey("When the pool is stopped without traffic", func() {
			pool.Stop()

			convey.Convey("Then no events were recorded", func() {
				convey.So(rec.count(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestPool_StopIsIdempotent(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{}
		pool := worker.NewPool(2, mq, rec)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When the pool is stopped twice", func() {
			convey.So(pool.Stop, convey.ShouldNotPanic)
			convey.So(pool.Stop, convey.ShouldNotPanic)
		})
	})
}

func TestWorker_ShutdownAfterPoolStop(t *testing.T) {
	convey.Convey("Given a worker already stopped once", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{}
		w := worker.NewWorker(mq, rec)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
		defer shutdownCancel()
		convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

		convey.Convey("When shutdown runs a second time", func() {
			convey.So(func() { _ = w.Shutdown(shutdownCtx) }, convey.ShouldNotPanic)
		})
	})
}

func TestPool_DefaultsWorkerCount(t *testing.T) {
	convey.Convey("Given an invalid worker count", t, func() {
		mq := newMockQueue()
		rec := &mockRecorder{}

		convey.Convey("When constructing the pool", func() {
			pool := worker.NewPool(0, mq, rec)

			convey.Convey("Then it should still start and stop cleanly", func() {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				pool.Start(ctx)
				pool.Stop()
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})
	})
}
