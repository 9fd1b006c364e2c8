package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "hemotrace/pkg/platform/audit"
	"hemotrace/pkg/platform/audit/publisher"
	"hemotrace/pkg/platform/audit/store/memory"
)

func TestWorkerDrainsPublishedEvents(t *testing.T) {
	pub := publisher.New(16, nil)
	store := memory.NewInMemoryStore()
	w := NewWorker(store, pub.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	event := audit.Event{
		Action:   string(audit.EventDonationRegistered),
		Category: audit.CategoryCompliance,
		DonorKey: "key-1",
	}
	require.NoError(t, pub.Emit(ctx, event))

	require.Eventually(t, func() bool {
		events, err := store.ListAll(ctx)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.Action, events[0].Action)
	assert.Equal(t, event.DonorKey, events[0].DonorKey)

	cancel()
	<-done
}

func TestEmitNeverBlocksOnFullBuffer(t *testing.T) {
	pub := publisher.New(1, nil)
	ctx := context.Background()

	require.NoError(t, pub.Emit(ctx, audit.Event{Action: "a"}))
	// Buffer is full; the second emit drops instead of blocking.
	require.NoError(t, pub.Emit(ctx, audit.Event{Action: "b"}))
}
