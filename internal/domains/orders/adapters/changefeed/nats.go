package changefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

// DefaultSubject is the NATS subject inserts are published on.
const DefaultSubject = "inventory_requests.inserted"

var _ ports.ChangeFeed = (*NATSFeed)(nil)

// NATSFeed receives inserted requests published by any backoffice or location instance.
type NATSFeed struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATSFeed connects to url and subscribes on subject when Subscribe is called.
func NewNATSFeed(url, subject string, logger *slog.Logger) (*NATSFeed, error) {
	conn, err := nats.Connect(url, nats.Name("restaurant-backoffice"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSFeed{conn: conn, subject: subject, logger: logger}, nil
}

// Subscribe delivers each decoded insert to handler.
func (f *NATSFeed) Subscribe(ctx context.Context, handler ports.InsertHandler) (ports.Subscription, error) {
	if f == nil || f.conn == nil {
		return nil, errors.New("nats change feed not connected")
	}
	sub, err := f.conn.Subscribe(f.subject, func(msg *nats.Msg) {
		req, err := DecodeInsert(msg.Data)
		if err != nil {
			f.logger.WarnContext(ctx, "dropping malformed inventory request message", slog.String("error", err.Error()))
			return
		}
		if err := handler(ctx, req); err != nil {
			f.logger.ErrorContext(ctx, "inventory request insert handler failed", slog.String("request.id", req.ID), slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, err
	}
	return natsSubscription{sub: sub}, nil
}

// Publish announces an inserted request on the feed subject.
func (f *NATSFeed) Publish(_ context.Context, req *domain.InventoryRequest) error {
	data, err := EncodeInsert(req)
	if err != nil {
		return err
	}
	return f.conn.Publish(f.subject, data)
}

func (f *NATSFeed) Close() error {
	if f == nil || f.conn == nil {
		return nil
	}
	f.conn.Close()
	return nil
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) Unsubscribe() error {
	err := s.sub.Unsubscribe()
	if errors.Is(err, nats.ErrBadSubscription) {
		return nil
	}
	return err
}

// InsertPublisher announces newly created requests.
type InsertPublisher interface {
	Publish(ctx context.Context, req *domain.InventoryRequest) error
}

var _ ports.Repository = (*PublishingRepository)(nil)

// PublishingRepository announces every successful Create on an InsertPublisher.
type PublishingRepository struct {
	ports.Repository
	publisher InsertPublisher
	logger    *slog.Logger
}

// NewPublishingRepository wraps repo so inserts reach other instances.
func NewPublishingRepository(repo ports.Repository, publisher InsertPublisher, logger *slog.Logger) *PublishingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PublishingRepository{Repository: repo, publisher: publisher, logger: logger}
}

func (r *PublishingRepository) Create(ctx context.Context, req *domain.InventoryRequest) (*domain.InventoryRequest, error) {
	saved, err := r.Repository.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := r.publisher.Publish(ctx, saved); err != nil {
		r.logger.WarnContext(ctx, "failed to publish inserted inventory request", slog.String("request.id", saved.ID), slog.String("error", err.Error()))
	}
	return saved, nil
}
