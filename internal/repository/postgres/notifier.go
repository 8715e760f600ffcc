package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/logger"
)

// Channels the schema triggers notify on. The payload is the collection key:
// conversation id for messages, owner id for assignments.
const (
	ChannelMessages    = "chat_messages"
	ChannelAssignments = "assignments"
)

const reconnectDelay = time.Second

// Notifier holds one dedicated connection in LISTEN mode and wakes the
// subscribers registered for a channel and payload.
type Notifier struct {
	pool     *pgxpool.Pool
	channels []string
	logger   *logger.Logger

	mu     sync.Mutex
	nextID int
	subs   map[string]map[string]map[int]func()
}

// NewNotifier creates a Notifier listening on channels once Run is called.
func NewNotifier(pool *pgxpool.Pool, logger *logger.Logger, channels ...string) *Notifier {
	return &Notifier{
		pool:     pool,
		channels: channels,
		logger:   logger,
		subs:     make(map[string]map[string]map[int]func()),
	}
}

// Run listens until ctx is done, reconnecting after connection failures.
// After a reconnect every subscriber is woken, since notifications may have
// been missed.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		err := n.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		n.logger.Warn("Notifier: connection lost, reconnecting", "error", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
		n.wakeAll()
	}
}

func (n *Notifier) listen(ctx context.Context) error {
	conn, err := n.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	for _, ch := range n.channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", ch, err)
		}
	}
	n.logger.Info("Notifier: listening", "channels", n.channels)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			// the connection state is unknown after an error, drop it
			conn.Conn().Close(context.Background())
			return fmt.Errorf("failed to wait for notification: %w", err)
		}
		n.dispatch(notification.Channel, notification.Payload)
	}
}

// Subscribe registers fn for notifications on channel carrying key as payload
// and returns the function that removes it.
func (n *Notifier) Subscribe(channel, key string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[channel] == nil {
		n.subs[channel] = make(map[string]map[int]func())
	}
	if n.subs[channel][key] == nil {
		n.subs[channel][key] = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.subs[channel][key][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		delete(n.subs[channel][key], id)
		if len(n.subs[channel][key]) == 0 {
			delete(n.subs[channel], key)
		}
	}
}

func (n *Notifier) dispatch(channel, key string) {
	for _, fn := range n.snapshot(func(ch, k string) bool { return ch == channel && k == key }) {
		fn()
	}
}

func (n *Notifier) wakeAll() {
	for _, fn := range n.snapshot(func(string, string) bool { return true }) {
		fn()
	}
}

func (n *Notifier) snapshot(match func(channel, key string) bool) []func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	var fns []func()
	for ch, keys := range n.subs {
		for k, byID := range keys {
			if !match(ch, k) {
				continue
			}
			for _, fn := range byID {
				fns = append(fns, fn)
			}
		}
	}
	return fns
}

// watch loads the collection once, then reloads and publishes it every time
// the notifier reports a change for key. Load failures end the stream with
// the mapped error.
func watch[T any](
	ctx context.Context,
	notifier *Notifier,
	channel, key string,
	load func(ctx context.Context) ([]T, error),
) (*feed.Stream[T], error) {
	if notifier == nil {
		return nil, errors.New("live subscriptions require a notifier")
	}

	dirty := make(chan struct{}, 1)
	unsubscribe := notifier.Subscribe(channel, key, func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	initial, err := load(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream := feed.New[T](unsubscribe, cancel)
	stream.CloseWhen(ctx)
	stream.Publish(initial)

	go func() {
		for {
			select {
			case <-stream.Done():
				return
			case <-dirty:
				snapshot, err := load(loadCtx)
				if err != nil {
					if loadCtx.Err() == nil {
						stream.Fail(err)
					}
					return
				}
				stream.Publish(snapshot)
			}
		}
	}()

	return stream, nil
}
