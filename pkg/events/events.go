package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rentnest/visits/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Visit lifecycle
	VisitRequested     = "visit.requested"
	VisitStatusChanged = "visit.status_changed"
	VisitDeleted       = "visit.deleted"

	// Subscriptions
	SubscriptionActivated = "subscription.activated"
)

// Event payloads
type VisitRequestedEvent struct {
	VisitID       int64     `json:"visit_id"`
	PropertyID    int64     `json:"property_id"`
	PropertyTitle string    `json:"property_title"`
	OwnerID       int64     `json:"owner_id"`
	TenantID      int64     `json:"tenant_id"`
	TenantName    string    `json:"tenant_name"`
	VisitDate     time.Time `json:"visit_date"`
	VisitTime     string    `json:"visit_time"`
	CreatedAt     time.Time `json:"created_at"`
}

type VisitStatusChangedEvent struct {
	VisitID    int64     `json:"visit_id"`
	PropertyID int64     `json:"property_id"`
	OwnerID    int64     `json:"owner_id"`
	TenantID   int64     `json:"tenant_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	VisitDate  time.Time `json:"visit_date"`
	VisitTime  string    `json:"visit_time"`
	ChangedBy  int64     `json:"changed_by"`
	ChangedAt  time.Time `json:"changed_at"`
}

type VisitDeletedEvent struct {
	VisitID   int64     `json:"visit_id"`
	OwnerID   int64     `json:"owner_id"`
	TenantID  int64     `json:"tenant_id"`
	DeletedBy int64     `json:"deleted_by"`
	DeletedAt time.Time `json:"deleted_at"`
}

type SubscriptionActivatedEvent struct {
	GrantID  int64     `json:"grant_id"`
	PlanID   int64     `json:"plan_id"`
	PlanName string    `json:"plan_name"`
	PartyID  int64     `json:"party_id"`
	EndDate  time.Time `json:"end_date"`
}
