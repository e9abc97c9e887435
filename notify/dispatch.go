package notify

import (
	"context"
	"wagondepot/event"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const dispatchQueueSize = 256

// messaging channels throttle aggressively; one message per second is
// comfortably below the Telegram and Slack webhook limits
var sendLimit = rate.Limit(1)

// Dispatcher decouples notification delivery from the write path: Enqueue
// never blocks and never fails, delivery happens on a single background
// goroutine behind a rate limiter.
type Dispatcher struct {
	notifier Notifier
	queue    chan string
	limiter  *rate.Limiter
	done     chan struct{}
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan string, dispatchQueueSize),
		limiter:  rate.NewLimiter(sendLimit, 5),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Enqueue(message string) {
	select {
	case d.queue <- message:
	default:
		logrus.Warn("notification queue full, message dropped: ", message)
	}
}

// Stop drains nothing: queued messages not yet sent are dropped. Losing a
// best-effort notification on shutdown is acceptable.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for message := range d.queue {
		if err := d.limiter.Wait(context.Background()); err != nil {
			return
		}
		if err := d.notifier.Publish(message); err != nil {
			logrus.Error("failed to publish notification: ", err)
		}
	}
}

var activeDispatcher *Dispatcher

// Bootstrap builds the notifier from the environment and hooks the event
// pipeline. Without a configured channel the service runs silently.
func Bootstrap() {
	notifier, err := BuildNotifierFromEnv()
	if err != nil {
		logrus.Warn("notifications disabled: ", err)
		return
	}
	activeDispatcher = NewDispatcher(notifier)
	event.EventHandlers = append(event.EventHandlers, NotifyEventHandler)
}

// NotifyEventHandler renders the event into a message and hands it to the
// dispatcher. It always reports success: delivery failures surface in logs,
// never in the mutation result.
func NotifyEventHandler(record *event.EventRecord) *event.EventHandleResult {
	if activeDispatcher == nil {
		return nil
	}
	activeDispatcher.Enqueue(Describe(record))
	return &event.EventHandleResult{Success: true, HandlerIdentifier: "notify"}
}
