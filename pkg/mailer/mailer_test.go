package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	err := m.Send(context.Background(), Message{
		To:      []string{"admin@example.com"},
		Subject: "Low Stock Alert: Keyboard",
		Body:    "Current quantity: 2",
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Low Stock Alert: Keyboard", fields["subject"])
}

func TestSMTPMailer_HonoursCancelledContext(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "inventory@localhost")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, Message{To: []string{"a@example.com"}}), context.Canceled)
}
