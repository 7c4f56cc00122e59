package goroutine

import (
	"runtime/debug"

	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
)

var (
	met = metrics.New("goroutine")
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

// RecoverableGo runs f on a new goroutine and keeps a panic in f from crashing
// the process. The returned channel receives one PanicEvent if f panicked,
// otherwise it is closed when f returns. onPanic hooks run before the event is sent.
func RecoverableGo(f func(), onPanic ...func(*PanicEvent)) <-chan *PanicEvent {
	done := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			p := recover()
			if p == nil {
				close(done)
				return
			}

			ev := &PanicEvent{Panic: p, Stack: debug.Stack()}
			log.Log().WithFields(log.Fields{
				"err":   p,
				"stack": string(ev.Stack),
			}).Error("panic")
			met.BumpSum("panic", 1)

			for _, fn := range onPanic {
				fn(ev)
			}
			done <- ev
		}()

		f()
	}()

	return done
}

// Go is RecoverableGo for callers that never wait on the result.
func Go(f func()) {
	RecoverableGo(f)
}
