package orders

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
)

const AckMessage = "Order placed successfully"

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) bool
}

// Intake accepts submitted orders. It logs and publishes them; nothing is
// persisted and nothing the client sent is validated.
type Intake struct {
	Publisher Publisher // optional
	Service   string
	Log       zerolog.Logger
	Now       func() time.Time
}

func (in *Intake) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}

func (in *Intake) Accept(ctx context.Context, o Order, traceID string) Ack {
	now := in.now().UTC()
	id := strconv.FormatInt(now.UnixMilli(), 10)

	in.Log.Info().
		Str("intake_id", id).
		Str("order_id", o.OrderID).
		Str("customer", o.Customer.Name).
		Int("items", len(o.Items)).
		Str("total", o.Total.String()).
		Msg("order received")

	if in.Publisher != nil {
		ev := Envelope{
			EventID:       uuid.NewString(),
			EventType:     EventOrderReceived,
			EventVersion:  1,
			OccurredAt:    now,
			Producer:      in.Service,
			TraceID:       traceID,
			CorrelationID: id,
			Payload:       kafkax.MustMarshal(OrderReceivedPayload{IntakeID: id, Order: o}),
		}
		ok := in.Publisher.Publish(PartitionKey(id), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderReceived)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
		if !ok {
			in.Log.Warn().Str("intake_id", id).Msg("order event dropped")
		}
	}

	return Ack{Success: true, OrderID: id, Message: AckMessage}
}
