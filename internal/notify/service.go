// Package notify consumes order events and produces the merchant hand-off
// for orders that reached the intake endpoint.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// Deduper claims an event id; false means it was already handled.
type Deduper interface {
	Claim(ctx context.Context, eventID string) (bool, error)
}

type RedisDeduper struct {
	RDB     *redis.Client
	Service string
	TTL     time.Duration
}

func (d RedisDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = redisx.TTLDedup
	}
	return redisx.MarkOnce(ctx, d.RDB, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), ttl)
}

type Service struct {
	Dedup     Deduper
	Recipient string
	StoreName string
	Currency  catalog.Currency
	Log       zerolog.Logger
}

// HandleOrderReceived is wired as the consumer handler.
func (s *Service) HandleOrderReceived(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and let the offset move on
		s.Log.Error().Err(err).Int64("offset", m.Offset).Msg("undecodable event")
		return nil
	}
	if env.EventType != orders.EventOrderReceived {
		return nil
	}

	if s.Dedup != nil {
		fresh, err := s.Dedup.Claim(ctx, env.EventID)
		if err != nil {
			return err
		}
		if !fresh {
			s.Log.Debug().Str("event_id", env.EventID).Msg("duplicate event skipped")
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[orders.OrderReceivedPayload](env.Payload)
	if err != nil {
		s.Log.Error().Err(err).Str("event_id", env.EventID).Msg("undecodable payload")
		return nil
	}

	cur := s.Currency
	if cur == "" {
		cur = catalog.DefaultCurrency
	}
	msg := checkout.OrderMessage(s.StoreName, cur, p.Order)
	s.Log.Info().
		Str("event_id", env.EventID).
		Str("intake_id", p.IntakeID).
		Str("order_id", p.Order.OrderID).
		Str("trace_id", env.TraceID).
		Str("link", checkout.DeepLink(s.Recipient, msg)).
		Msg(msg)
	return nil
}
