package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderChannel(t *testing.T) {
	assert.Equal(t, "orders:org-1", OrderChannel("org-1"))
}

func TestPublishWithoutSubscribersIsANoOp(t *testing.T) {
	h := NewHub()
	h.Publish("orders:org-1", Event{Action: ActionNewOrder})
	assert.Zero(t, h.Subscribers("orders:org-1"))
}

func TestPublishReachesOnlyTheChannel(t *testing.T) {
	h := NewHub()
	sub := &client{send: make(chan []byte, 4)}
	other := &client{send: make(chan []byte, 4)}
	h.register("orders:org-1", sub)
	h.register("orders:org-2", other)

	h.Publish("orders:org-1", Event{Action: ActionNewOrder, Data: map[string]string{"id": "o1"}})

	require.Len(t, sub.send, 1)
	assert.Empty(t, other.send)

	var got Event
	require.NoError(t, json.Unmarshal(<-sub.send, &got))
	assert.Equal(t, ActionNewOrder, got.Action)
}

func TestPublishDropsWhenBufferIsFull(t *testing.T) {
	h := NewHub()
	sub := &client{send: make(chan []byte, 1)}
	h.register("orders:org-1", sub)

	// The second publish must not block.
	h.Publish("orders:org-1", Event{Action: ActionNewOrder})
	h.Publish("orders:org-1", Event{Action: ActionNewOrder})

	assert.Len(t, sub.send, 1)
}

func TestUnregisterClosesTheClient(t *testing.T) {
	h := NewHub()
	sub := &client{send: make(chan []byte, 1)}
	h.register("orders:org-1", sub)
	require.Equal(t, 1, h.Subscribers("orders:org-1"))

	h.unregister("orders:org-1", sub)
	assert.Zero(t, h.Subscribers("orders:org-1"))

	_, open := <-sub.send
	assert.False(t, open)
}
