package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Handler processes one received event. A returned error is logged and the
// message is dropped; sinks are never retried.
type Handler func(ctx context.Context, env Envelope) error

type queued struct {
	topic string
	msg   *message.Message
}

// Bus carries combat events from packet handlers to the sinks.
//
// Emit never blocks: it enqueues into a bounded queue and returns. A single
// pump goroutine publishes to an in-memory watermill GoChannel and waits for
// every subscriber to ack before publishing the next message, so each sink sees
// events in emission order and a slow sink only backs up the queue.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}

	dropped atomic.Uint64
}

// NewBus starts the pump. queueSize bounds how many events may wait for sinks.
func NewBus(queueSize int, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	b := &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{BlockPublishUntilSubscriberAck: true},
			NewZapAdapter(log.Named("watermill")),
		),
		log:   log,
		queue: make(chan queued, queueSize),
		done:  make(chan struct{}),
	}
	go b.pump()
	return b
}

func (b *Bus) pump() {
	defer close(b.done)
	for q := range b.queue {
		if err := b.pubsub.Publish(q.topic, q.msg); err != nil {
			b.log.Error("bus publish failed", zap.String("topic", q.topic), zap.Error(err))
		}
	}
}

// Emit queues ev for delivery on topic. It drops the event, with a log line,
// when the bus is closed or the queue is full.
func (b *Bus) Emit(topic string, ev Event) {
	msg, err := encode(ev)
	if err != nil {
		b.log.Error("bus encode failed", zap.String("topic", topic), zap.Error(err))
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.dropped.Add(1)
		return
	}
	select {
	case b.queue <- queued{topic: topic, msg: msg}:
	default:
		n := b.dropped.Add(1)
		b.log.Warn("bus queue full, event dropped",
			zap.String("topic", topic),
			zap.String("type", ev.Type()),
			zap.Uint64("dropped_total", n),
		)
	}
}

// Dropped returns how many events were discarded so far.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Subscribe delivers every event on topic to fn until ctx is cancelled or the
// bus is closed. Must be called before events are emitted on topic.
func (b *Bus) Subscribe(ctx context.Context, topic string, fn Handler) error {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	log := b.log.With(zap.String("topic", topic))
	go func() {
		for msg := range messages {
			env := toEnvelope(msg)
			if err := safeCall(fn, msg.Context(), env); err != nil {
				log.Error("sink failed, event dropped",
					zap.String("type", env.Type),
					zap.String("msg_id", msg.UUID),
					zap.Error(err),
				)
			}
			// Always ack: a Nack makes GoChannel redeliver forever.
			msg.Ack()
		}
	}()
	return nil
}

// Close stops accepting events, delivers everything already queued, then
// shuts down the subscriptions.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	<-b.done
	return b.pubsub.Close()
}

func safeCall(fn Handler, ctx context.Context, env Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sink panic: %v", rec)
		}
	}()
	return fn(ctx, env)
}
