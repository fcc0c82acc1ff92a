package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_QueuesWithoutClients(t *testing.T) {
	h := NewHub(zap.NewNop())

	h.BroadcastJSON(map[string]string{"type": "stock_update"})
	h.SendJSONToUsers([]uuid.UUID{uuid.New()}, map[string]string{"type": "low_stock"})

	require.Len(t, h.broadcast, 1)
	require.Len(t, h.direct, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(<-h.broadcast, &payload))
	assert.Equal(t, "stock_update", payload["type"])
}

func TestHub_SendToNobodyIsNoop(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.SendJSONToUsers(nil, map[string]string{"type": "low_stock"})
	assert.Len(t, h.direct, 0)
}

func TestHub_DropsWhenQueueFull(t *testing.T) {
	h := NewHub(zap.NewNop())
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.BroadcastJSON(i)
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	h := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	h.BroadcastJSON("drained")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_RegistrationAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	returned := make(chan bool)
	go func() {
		ok := h.Register(&Client{UserID: uuid.New()})
		h.Unregister(nil)
		returned <- ok
	}()

	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after hub stopped")
	}
	assert.Equal(t, 0, h.ClientCount())
}
