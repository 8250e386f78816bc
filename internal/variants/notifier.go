package variants

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"go.uber.org/zap"
)

// NoopNotifier discards every event
type NoopNotifier struct{}

// Notify does nothing
func (NoopNotifier) Notify(Event) {}

// AsyncNotifier hands events to a sink from a fixed pool of workers. Notify
// never blocks: when the queue is full the event is dropped.
type AsyncNotifier struct {
	sink    EventSink
	queue   chan Event
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncNotifier starts workers draining into sink
func NewAsyncNotifier(sink EventSink, queueSize, workers int, timeout time.Duration) *AsyncNotifier {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	n := &AsyncNotifier{
		sink:    sink,
		queue:   make(chan Event, queueSize),
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}
	return n
}

// Notify enqueues an event
func (n *AsyncNotifier) Notify(event Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		telemetryEventsTotal.WithLabelValues(string(event.Type), "dropped").Inc()
		return
	}

	select {
	case n.queue <- event:
		telemetryEventsTotal.WithLabelValues(string(event.Type), "queued").Inc()
	default:
		telemetryEventsTotal.WithLabelValues(string(event.Type), "dropped").Inc()
	}
}

// Close stops accepting events and waits for queued ones to be delivered
func (n *AsyncNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *AsyncNotifier) worker() {
	defer n.wg.Done()
	for event := range n.queue {
		n.deliver(event)
	}
}

func (n *AsyncNotifier) deliver(event Event) {
	defer func() {
		if r := recover(); r != nil {
			telemetryEventsTotal.WithLabelValues(string(event.Type), "failed").Inc()
			logger.Error("variant telemetry sink panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if n.sink == nil {
		return
	}
	if err := n.sink.Record(ctx, &event); err != nil {
		telemetryEventsTotal.WithLabelValues(string(event.Type), "failed").Inc()
		logger.Debug("variant telemetry dropped",
			zap.String("content_key", event.ContentKey),
			zap.String("locale", event.Locale),
			zap.String("variant", event.VariantName),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return
	}
	telemetryEventsTotal.WithLabelValues(string(event.Type), "recorded").Inc()
}

// MultiSink fans an event out to several sinks; every sink is attempted
type MultiSink []EventSink

// Record delivers to each sink and joins their errors
func (m MultiSink) Record(ctx context.Context, event *Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
