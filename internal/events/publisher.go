package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/amiraesya/glowmart-golang/internal/models"
)

// Topics carrying order lifecycle events. Downstream consumers (email,
// fulfilment, analytics) subscribe to these; the API itself never reads
// them back.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is the payload on TopicOrderCreated.
type OrderCreatedEvent struct {
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"userId"`
	TotalAmount float64            `json:"totalAmount"`
	Items       []models.OrderItem `json:"items"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// OrderStatusChangedEvent is the payload on TopicOrderStatusChanged.
type OrderStatusChangedEvent struct {
	OrderID   string             `json:"orderId"`
	From      models.OrderStatus `json:"from"`
	To        models.OrderStatus `json:"to"`
	ChangedAt time.Time          `json:"changedAt"`
}

// Publisher emits order events to Kafka. It is fire-and-forget by design:
// a broker outage must never fail a checkout, so write errors are logged
// and dropped.
type Publisher struct {
	created       *kafkaGo.Writer
	statusChanged *kafkaGo.Writer
	logger        *slog.Logger
}

func NewPublisher(brokers []string, logger *slog.Logger) *Publisher {
	newWriter := func(topic string) *kafkaGo.Writer {
		return &kafkaGo.Writer{
			Addr:         kafkaGo.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkaGo.LeastBytes{},
			WriteTimeout: 5 * time.Second,
			MaxAttempts:  3,
		}
	}
	return &Publisher{
		created:       newWriter(TopicOrderCreated),
		statusChanged: newWriter(TopicOrderStatusChanged),
		logger:        logger,
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, order *models.Order) {
	p.publish(ctx, p.created, order.ID, OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
		CreatedAt:   order.CreatedAt,
	})
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, orderID string, from, to models.OrderStatus) {
	p.publish(ctx, p.statusChanged, orderID, OrderStatusChangedEvent{
		OrderID:   orderID,
		From:      from,
		To:        to,
		ChangedAt: time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, w *kafkaGo.Writer, key string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", "topic", w.Topic, "err", err)
		return
	}

	err = w.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("publish event", "topic", w.Topic, "key", key, "err", err)
	}
}

// Close flushes and closes the underlying writers.
func (p *Publisher) Close() error {
	if err := p.created.Close(); err != nil {
		return err
	}
	return p.statusChanged.Close()
}
