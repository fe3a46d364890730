package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attachClient wires a connection-less client straight into the hub's map so
// delivery can be asserted without running the register loop.
func attachClient(h *Hub) *Client {
	client := &Client{Hub: h, UserID: uuid.New(), Send: make(chan []byte, 8)}
	h.mu.Lock()
	h.clients[client.UserID] = append(h.clients[client.UserID], client)
	h.mu.Unlock()
	return client
}

func receivedFrames(client *Client) int {
	count := 0
	for {
		select {
		case <-client.Send:
			count++
		default:
			return count
		}
	}
}

func clusterPayload(t *testing.T, origin string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"origin":         origin,
		"target_user_id": "*",
		"message":        json.RawMessage(`{"type":"notification"}`),
	})
	require.NoError(t, err)
	return raw
}

func TestHandleClusterMessage_SkipsOwnPublishes(t *testing.T) {
	h := NewHub(nil, nil)
	client := attachClient(h)

	h.handleClusterMessage(clusterPayload(t, "another-replica"))
	assert.Equal(t, 1, receivedFrames(client), "foreign publishes reach local clients")

	h.handleClusterMessage(clusterPayload(t, h.instanceID))
	assert.Equal(t, 0, receivedFrames(client), "own publishes already went out locally")

	h.handleClusterMessage([]byte("{not json"))
	assert.Equal(t, 0, receivedFrames(client))
}

func TestBroadcast_DeliversOncePerClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h := NewHub(rdb, nil)
	client := attachClient(h)

	ctx := context.Background()
	pubsub := rdb.Subscribe(ctx, clusterChannel)
	t.Cleanup(func() { pubsub.Close() })
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err, "subscription must be live before broadcasting")

	h.Broadcast(Notification{Type: "DEAL_SIGNAL_UPDATED", OccurredAt: time.Now()})

	// The local path delivers synchronously.
	assert.Equal(t, 1, receivedFrames(client))

	// The cluster payload carries this replica's id, so replaying it through
	// the subscription path adds nothing.
	select {
	case msg := <-pubsub.Channel():
		var payload struct {
			Origin string `json:"origin"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
		assert.Equal(t, h.instanceID, payload.Origin)

		h.handleClusterMessage([]byte(msg.Payload))
		assert.Equal(t, 0, receivedFrames(client))
	case <-time.After(2 * time.Second):
		t.Fatal("cluster publish never arrived")
	}
}
