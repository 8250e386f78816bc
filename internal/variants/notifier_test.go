package variants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// blockingSink holds every Record call until release is closed
type blockingSink struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSink) Record(ctx context.Context, _ *Event) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}

func TestAsyncNotifier_DeliversAndDrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	n := NewAsyncNotifier(sink, 16, 2, time.Second)

	for i := 0; i < 10; i++ {
		n.Notify(Event{Type: EventImpression, VariantName: "A"})
	}
	n.Close()

	assert.Equal(t, 10, sink.Len())
}

func TestAsyncNotifier_DropsWhenQueueFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &blockingSink{started: make(chan struct{}, 4), release: make(chan struct{})}
	n := NewAsyncNotifier(sink, 1, 1, time.Second)

	n.Notify(Event{Type: EventImpression})
	<-sink.started // the worker holds the first event

	n.Notify(Event{Type: EventImpression}) // fills the queue

	done := make(chan struct{})
	go func() {
		n.Notify(Event{Type: EventImpression}) // must not block
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sink.release)
	n.Close()
}

func TestAsyncNotifier_NotifyAfterCloseIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	n := NewAsyncNotifier(sink, 4, 1, time.Second)
	n.Close()
	n.Close()

	n.Notify(Event{Type: EventConversion})
	assert.Equal(t, 0, sink.Len())
}

func TestAsyncNotifier_SinkErrorsAreSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{err: errors.New("db down")}
	n := NewAsyncNotifier(sink, 4, 1, time.Second)

	n.Notify(Event{Type: EventEngagement})
	n.Close()

	assert.Equal(t, 0, sink.Len())
}

func TestMultiSink_AttemptsEverySink(t *testing.T) {
	first := &recordingSink{err: errors.New("nats down")}
	second := &recordingSink{}

	err := MultiSink{first, nil, second}.Record(context.Background(), &Event{Type: EventImpression})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats down")
	assert.Equal(t, 1, second.Len())
}

func TestNATSSink_Subject(t *testing.T) {
	sink := NewNATSSink(nil, "")
	assert.Equal(t, "dendrix.variants.conversion", sink.Subject(EventConversion))

	err := sink.Record(context.Background(), &Event{Type: EventConversion})
	assert.Error(t, err)
}
