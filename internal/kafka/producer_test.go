package kafka

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPublishDropsWhenFullOrClosed(t *testing.T) {
	// never started: nothing drains the inbox
	p := NewProducer([]string{"127.0.0.1:1"}, "test.topic", 1, zerolog.Nop())

	assert.True(t, p.Publish([]byte("k"), []byte("v1")))
	assert.False(t, p.Publish([]byte("k"), []byte("v2")), "buffer of one is full")

	p.Close()
	p.Close()
	assert.False(t, p.Publish([]byte("k"), []byte("v3")))
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}
	got, err := UnwrapPayload[payload](MustMarshal(payload{OrderID: "42"}))
	assert.NoError(t, err)
	assert.Equal(t, "42", got.OrderID)

	_, err = UnwrapPayload[payload]([]byte("{"))
	assert.Error(t, err)
}
