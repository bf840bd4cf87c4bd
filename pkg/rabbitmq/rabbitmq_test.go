package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEvent_WireFormat(t *testing.T) {
	event := OrderEvent{
		OrderID:       "ord-1",
		Email:         "ann@example.com",
		Amount:        2000,
		TransactionID: "pi_123",
		Status:        "pending",
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "ord-1", raw["orderId"])
	assert.Equal(t, "pi_123", raw["transactionId"])
	assert.Equal(t, 2000.0, raw["amount"])

	decoded, err := DecodeOrderEvent(body)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestDecodeOrderEvent_Rejects(t *testing.T) {
	_, err := DecodeOrderEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeOrderEvent([]byte(`{"email":"ann@example.com"}`))
	assert.Error(t, err)
}

func TestClient_WithoutChannel(t *testing.T) {
	var c *Client
	assert.True(t, errors.Is(c.Publish(OrderExchange, OrderCreatedKey, []byte("{}")), ErrChannelClosed))
	assert.True(t, errors.Is(c.ConsumeOrderEvents(LogOrderEvent), ErrChannelClosed))

	empty := &Client{}
	assert.True(t, errors.Is(empty.PublishOrderCreated(OrderEvent{OrderID: "x"}), ErrChannelClosed))
	assert.NoError(t, empty.Close())
}
