// Package events は注文イベントのKafka発行。
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
)

// Envelope は全イベント共通の外装。
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID      int64 `json:"order_id"`
	UserID       int64 `json:"user_id"`
	VendorUserID int64 `json:"vendor_user_id"`
	TotalPrice   int64 `json:"total_price"`
}

type OrderPaidPayload struct {
	OrderID           int64 `json:"order_id"`
	UserID            int64 `json:"user_id"`
	VendorUserID      int64 `json:"vendor_user_id"`
	TotalPrice        int64 `json:"total_price"`
	WebsiteCommission int64 `json:"website_commission"`
	VendorSubtotal    int64 `json:"vendor_subtotal"`
}

type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, key string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now(),
		Producer:   "storefront-api",
		Payload:    raw,
	}

	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NoopPublisher はbroker未設定時のダミー。
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, key string, payload interface{}) error {
	return nil
}
