package changefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

// InsertChannel is the NOTIFY channel the inventory_requests insert trigger writes to.
const InsertChannel = "inventory_requests_inserted"

var _ ports.ChangeFeed = (*PostgresFeed)(nil)

// PostgresFeed listens for insert notifications and loads each new row from the repository.
// The notification payload carries only the row id, so large rows never hit the NOTIFY size limit.
type PostgresFeed struct {
	dsn          string
	channel      string
	repo         ports.Repository
	logger       *slog.Logger
	pingInterval time.Duration
}

type PostgresOption func(*PostgresFeed)

// WithChannel overrides InsertChannel.
func WithChannel(channel string) PostgresOption {
	return func(f *PostgresFeed) {
		if strings.TrimSpace(channel) != "" {
			f.channel = channel
		}
	}
}

// WithPostgresLogger injects the logger for listener events.
func WithPostgresLogger(logger *slog.Logger) PostgresOption {
	return func(f *PostgresFeed) { f.logger = logger }
}

// NewPostgresFeed builds a LISTEN/NOTIFY feed over dsn.
func NewPostgresFeed(dsn string, repo ports.Repository, opts ...PostgresOption) *PostgresFeed {
	f := &PostgresFeed{
		dsn:          dsn,
		channel:      InsertChannel,
		repo:         repo,
		logger:       slog.Default(),
		pingInterval: 90 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Subscribe starts listening until the subscription or ctx ends.
func (f *PostgresFeed) Subscribe(ctx context.Context, handler ports.InsertHandler) (ports.Subscription, error) {
	if strings.TrimSpace(f.dsn) == "" {
		return nil, errors.New("postgres change feed requires a DSN")
	}
	if f.repo == nil {
		return nil, errors.New("postgres change feed requires a repository")
	}
	listener := pq.NewListener(f.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			f.logger.Warn("inventory request listener event", slog.Int("event", int(ev)), slog.String("error", err.Error()))
		}
	})
	if err := listener.Listen(f.channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", f.channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &listenerSubscription{listener: listener, cancel: cancel, done: make(chan struct{})}
	go f.loop(ctx, listener, handler, sub.done)
	return sub, nil
}

func (f *PostgresFeed) loop(ctx context.Context, listener *pq.Listener, handler ports.InsertHandler, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect; notifications sent while disconnected are lost
			if n == nil {
				continue
			}
			f.deliver(ctx, strings.TrimSpace(n.Extra), handler)
		case <-ticker.C:
			go func() { _ = listener.Ping() }()
		}
	}
}

func (f *PostgresFeed) deliver(ctx context.Context, id string, handler ports.InsertHandler) {
	if id == "" {
		return
	}
	req, err := f.repo.GetByID(ctx, id)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to load inserted inventory request", slog.String("request.id", id), slog.String("error", err.Error()))
		return
	}
	if err := handler(ctx, req); err != nil {
		f.logger.ErrorContext(ctx, "inventory request insert handler failed", slog.String("request.id", id), slog.String("error", err.Error()))
	}
}

type listenerSubscription struct {
	once     sync.Once
	listener *pq.Listener
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
}

func (s *listenerSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.err = s.listener.Close()
	})
	return s.err
}
