package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SyncEmit(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	err := p.Emit(context.Background(), Event{
		Party:    "issuer-1",
		Action:   string(EventRecordMinted),
		RecordID: 1,
	})
	require.NoError(t, err)

	events := store.All()
	require.Len(t, events, 1)
	assert.Equal(t, string(EventRecordMinted), events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisher_AsyncEmitDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(16))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{
			Party:  "holder-1",
			Action: string(EventRevealRequested),
		}))
	}
	p.Close()

	assert.Len(t, store.All(), 5)
}

func TestPublisher_ListByParty(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)
	ctx := context.Background()

	require.NoError(t, p.Emit(ctx, Event{Party: "a", Action: "x", Timestamp: time.Now()}))
	require.NoError(t, p.Emit(ctx, Event{Party: "b", Action: "y", Timestamp: time.Now()}))

	events, err := p.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "x", events[0].Action)
}
