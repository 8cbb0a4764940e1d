package storefront

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Executor separates work that must run on the event loop from blocking
// work that must not
type Executor interface {
	// Post schedules fn on the event loop
	Post(fn func())
	// Go runs fn off the event loop
	Go(fn func())
}

// ErrLoopStopped is returned by Run when Stop was called
var ErrLoopStopped = errors.New("event loop stopped")

// Loop runs posted functions one at a time, in order, on the goroutine
// that calls Run. Bus handlers and model mutations all run here.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewLoop creates a loop with room for size pending tasks
func NewLoop(size int, logger *zap.Logger) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		tasks:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post schedules fn on the loop. It blocks while the queue is full and
// drops fn once the loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		l.logger.Debug("dropping task posted after loop stop")
	case l.tasks <- fn:
	}
}

// Go runs fn on its own goroutine. Run waits for these goroutines before
// returning.
func (l *Loop) Go(fn func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fn()
	}()
}

// Run processes tasks until ctx is done or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	defer l.wg.Wait()
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrLoopStopped
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

// Stop ends Run. Further posts are dropped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed when the loop stops
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic in event loop task", zap.Any("panic", r), zap.Stack("stacktrace"))
		}
	}()
	fn()
}

// InlineExecutor runs everything immediately on the caller's goroutine.
// Asynchronous work then completes before the triggering call returns.
type InlineExecutor struct{}

// Post calls fn
func (InlineExecutor) Post(fn func()) { fn() }

// Go calls fn
func (InlineExecutor) Go(fn func()) { fn() }
