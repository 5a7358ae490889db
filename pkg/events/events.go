package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diagnosis/visitor-portal/pkg/logger"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name("visitor-portal"),
		nats.MaxReconnects(-1),
	)
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

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "bytes", len(payload))

	msg := nats.NewMsg(subject)
	msg.Data = payload
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		msg.Header.Set("X-Request-ID", requestID)
	}
	return n.conn.PublishMsg(msg)
}

func (n *NATSEventBus) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
	return nil
}

// Nop discards events. It is used when NATS_URL is unset.
type Nop struct{}

func (Nop) Publish(ctx context.Context, subject string, data interface{}) error {
	logger.DebugContext(ctx, "Event publishing disabled", "subject", subject)
	return nil
}

func (Nop) Close() error { return nil }

// Event types and subjects
const (
	VisitorAdded     = "visitor.added"
	VisitorSignedOut = "visitor.signed_out"

	AccountCreated         = "auth.account.created"
	PasswordResetRequested = "auth.password_reset.requested"
)

// Event payloads
type VisitorAddedEvent struct {
	TagNumber      string    `json:"tag_number"`
	Name           string    `json:"name"`
	Organisation   string    `json:"organisation"`
	WhomToSee      string    `json:"whom_to_see"`
	PurposeOfVisit string    `json:"purpose_of_visit"`
	AddedAt        time.Time `json:"added_at"`
}

type VisitorSignedOutEvent struct {
	VisitorID   int64     `json:"visitor_id"`
	SignedOutAt time.Time `json:"signed_out_at"`
}

type AccountCreatedEvent struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type PasswordResetRequestedEvent struct {
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}
