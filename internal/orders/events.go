package orders

import (
	"encoding/json"
	"time"
)

const EventOrderReceived = "OrderReceived"

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // EventOrderReceived
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderReceivedPayload struct {
	// IntakeID is the id the intake endpoint acknowledged with; Order.OrderID
	// is the one the client generated.
	IntakeID string `json:"intake_id"`
	Order    Order  `json:"order"`
}
