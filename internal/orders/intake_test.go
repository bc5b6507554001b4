package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
)

type recordingPublisher struct {
	keys    [][]byte
	values  [][]byte
	headers [][]kafkago.Header
	accept  bool
}

func (r *recordingPublisher) Publish(key, value []byte, headers ...kafkago.Header) bool {
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
	r.headers = append(r.headers, headers)
	return r.accept
}

func sampleOrder() Order {
	size := "M"
	return Order{
		OrderID:        "1700000000000",
		Customer:       Customer{Name: "Ama", Phone: "0240000000", Address: "Accra"},
		ShippingMethod: "express-20",
		Items: []Item{
			{ProductID: "KC-1", Title: "Shirt", Price: NewMoney(decimal.NewFromInt(60)), Quantity: 2, Variant: &size},
		},
		Subtotal:      NewMoney(decimal.NewFromInt(120)),
		Shipping:      NewMoney(decimal.NewFromInt(20)),
		Total:         NewMoney(decimal.NewFromInt(140)),
		PaymentMethod: "momo",
	}
}

func TestAcceptPublishesEnvelope(t *testing.T) {
	pub := &recordingPublisher{accept: true}
	at := time.UnixMilli(1767225600123)
	in := &Intake{Publisher: pub, Service: "storefront-api", Log: zerolog.Nop(), Now: func() time.Time { return at }}

	ack := in.Accept(context.Background(), sampleOrder(), "req-1")
	assert.Equal(t, Ack{Success: true, OrderID: "1767225600123", Message: AckMessage}, ack)

	require.Len(t, pub.values, 1)
	assert.Equal(t, []byte("1767225600123"), pub.keys[0])
	assert.Equal(t, "x-event-type", pub.headers[0][0].Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.values[0], &env))
	assert.Equal(t, EventOrderReceived, env.EventType)
	assert.Equal(t, "req-1", env.TraceID)
	assert.NotEmpty(t, env.EventID)

	p, err := kafkax.UnwrapPayload[OrderReceivedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, ack.OrderID, p.IntakeID)
	assert.Equal(t, "Ama", p.Order.Customer.Name)
	assert.True(t, p.Order.Total.Equal(decimal.NewFromInt(140)))
}

func TestAcceptWithoutPublisher(t *testing.T) {
	in := &Intake{Log: zerolog.Nop()}
	ack := in.Accept(context.Background(), Order{}, "")
	assert.True(t, ack.Success)
	assert.NotEmpty(t, ack.OrderID)
}

func TestAcceptSurvivesDroppedEvent(t *testing.T) {
	in := &Intake{Publisher: &recordingPublisher{accept: false}, Log: zerolog.Nop()}
	ack := in.Accept(context.Background(), sampleOrder(), "")
	assert.True(t, ack.Success)
}

func TestMoneyIsBareNumber(t *testing.T) {
	b, err := json.Marshal(sampleOrder().Items[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":60`)

	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.5,"quantity":1,"variant":null}`), &it))
	assert.Equal(t, "12.5", it.Price.String())
	assert.Nil(t, it.Variant)
}
