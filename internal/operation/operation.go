// Package operation tracks the state of one asynchronous call at a time:
// the last result, whether a call is running, and the last error message.
// It is the piece a CLI command or a handler renders from.
package operation

import (
	"context"
	"errors"
	"sync"
)

// FallbackMessage is recorded when a failure carries no message of its own.
const FallbackMessage = "An unexpected error occurred"

// ErrClosed is returned by Execute once the operation has been closed.
var ErrClosed = errors.New("operation closed")

// State is a snapshot of an operation. Data is nil until a call succeeds.
// While Loading is true Error is empty and Data still holds the previous result.
type State[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

// Operation wraps fn and mirrors the outcome of its invocations into State.
// It is safe for concurrent use; when calls overlap only the most recent one
// settles into the state.
type Operation[A, T any] struct {
	fn func(context.Context, A) (T, error)

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	epoch  context.Context
	cancel context.CancelFunc
	subs   map[int]func(State[T])
	nextID int
	closed bool

	// queue holds states not yet handed to subscribers, oldest first.
	// Only the goroutine that set delivering drains it.
	queue      []State[T]
	delivering bool
}

// New returns an idle operation around fn.
func New[A, T any](fn func(ctx context.Context, args A) (T, error)) *Operation[A, T] {
	o := &Operation[A, T]{fn: fn, subs: make(map[int]func(State[T]))}
	o.epoch, o.cancel = context.WithCancel(context.Background())
	return o
}

// Func wraps a call that takes no arguments.
func Func[T any](fn func(ctx context.Context) (T, error)) *Operation[struct{}, T] {
	return New(func(ctx context.Context, _ struct{}) (T, error) { return fn(ctx) })
}

// Execute runs fn with args. The error is returned unchanged; its message is
// also recorded in the state. The context handed to fn is cancelled when ctx
// is, or when Reset or Close is called before fn returns.
func (o *Operation[A, T]) Execute(ctx context.Context, args A) (T, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		var zero T
		return zero, ErrClosed
	}
	o.seq++
	seq := o.seq
	epoch := o.epoch
	o.state.Loading = true
	o.state.Error = ""
	o.publishLocked()
	o.mu.Unlock()
	o.deliver()

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(epoch, cancel)
	defer stop()

	v, err := o.fn(callCtx, args)

	o.mu.Lock()
	if seq != o.seq || o.closed {
		// a newer call, Reset or Close got here first
		o.mu.Unlock()
		return v, err
	}
	o.state.Loading = false
	if err != nil {
		o.state.Error = message(err)
	} else {
		d := v
		o.state.Data = &d
	}
	o.publishLocked()
	o.mu.Unlock()
	o.deliver()

	return v, err
}

// Reset returns the state to its initial value and cancels any call in flight.
func (o *Operation[A, T]) Reset() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.seq++
	o.cancel()
	o.epoch, o.cancel = context.WithCancel(context.Background())
	o.state = State[T]{}
	o.publishLocked()
	o.mu.Unlock()
	o.deliver()
}

// State returns the current snapshot.
func (o *Operation[A, T]) State() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers fn to be called with every new state. States reach
// subscribers one at a time and in the order they were reached, so the last
// one delivered is the current state. The returned function removes the
// subscription.
func (o *Operation[A, T]) Subscribe(fn func(State[T])) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return func() {}
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Close cancels in-flight calls and drops all subscribers. Calls that settle
// afterwards leave the state untouched.
func (o *Operation[A, T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.seq++
	o.cancel()
	o.subs = nil
	o.queue = nil
}

func (o *Operation[A, T]) publishLocked() {
	if len(o.subs) == 0 {
		return
	}
	o.queue = append(o.queue, o.state)
}

// deliver drains the queue unless another goroutine is already doing so, in
// which case that goroutine picks up what was just published. Callers never
// wait on a subscriber running elsewhere, and a subscriber may call back into
// the operation.
func (o *Operation[A, T]) deliver() {
	o.mu.Lock()
	if o.delivering {
		o.mu.Unlock()
		return
	}
	o.delivering = true
	for len(o.queue) > 0 {
		s := o.queue[0]
		o.queue[0] = State[T]{}
		o.queue = o.queue[1:]
		subs := make([]func(State[T]), 0, len(o.subs))
		for _, fn := range o.subs {
			subs = append(subs, fn)
		}
		o.mu.Unlock()
		for _, fn := range subs {
			fn(s)
		}
		o.mu.Lock()
	}
	o.delivering = false
	o.mu.Unlock()
}

func message(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
