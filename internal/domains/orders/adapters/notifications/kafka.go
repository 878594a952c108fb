package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

var _ ports.Notifier = (*KafkaNotifier)(nil)

// Kind names the notification carried by an Event.
type Kind string

const (
	KindDelay      Kind = "delay"
	KindOutOfStock Kind = "out_of_stock"
	KindExpiration Kind = "expiration"
)

// Event is the JSON payload published for every customer notification.
type Event struct {
	EventID      string     `json:"event_id"`
	Kind         Kind       `json:"kind"`
	ProductName  string     `json:"product_name"`
	LeadTimeDays *int       `json:"lead_time_days,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes notifications to a topic, keyed by product name so
// events for one product stay on one partition.
type KafkaNotifier struct {
	w     messageWriter
	now   func() time.Time
	newID func() string
}

// NewKafkaNotifier builds a synchronous producer that waits for all in-sync replicas.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return newKafkaNotifier(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            5,
		WriteTimeout:           5 * time.Second,
		ReadTimeout:            5 * time.Second,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func newKafkaNotifier(w messageWriter) *KafkaNotifier {
	return &KafkaNotifier{w: w, now: time.Now, newID: uuid.NewString}
}

// Close releases the underlying writer.
func (n *KafkaNotifier) Close() error { return n.w.Close() }

func (n *KafkaNotifier) SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) error {
	return n.publish(ctx, Event{Kind: KindDelay, ProductName: productName, LeadTimeDays: &leadTimeDays})
}

func (n *KafkaNotifier) SendOutOfStockNotification(ctx context.Context, productName string) error {
	return n.publish(ctx, Event{Kind: KindOutOfStock, ProductName: productName})
}

func (n *KafkaNotifier) SendExpirationNotification(ctx context.Context, productName string, expiryDate time.Time) error {
	expiry := expiryDate.UTC()
	return n.publish(ctx, Event{Kind: KindExpiration, ProductName: productName, ExpiryDate: &expiry})
}

func (n *KafkaNotifier) publish(ctx context.Context, event Event) error {
	event.EventID = n.newID()
	event.OccurredAt = n.now().UTC()
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.w.WriteMessages(ctx, kafka.Message{Key: []byte(event.ProductName), Value: b}); err != nil {
		return fmt.Errorf("publish %s notification: %w", event.Kind, err)
	}
	return nil
}
