package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSlotBusy = errors.New("slot busy")

func TestPendingSlotResolve(t *testing.T) {
	var slot pendingSlot[string, int]

	done, err := slot.open("a", "payload-a", time.Minute, -1, errSlotBusy)
	require.NoError(t, err)

	assert.True(t, slot.resolve("a", 42))
	assert.Equal(t, 42, <-done)

	// Slot is free again
	_, ok := slot.peek()
	assert.False(t, ok)
}

func TestPendingSlotCapacity(t *testing.T) {
	var slot pendingSlot[string, int]

	_, err := slot.open("a", "payload-a", time.Minute, -1, errSlotBusy)
	require.NoError(t, err)

	_, err = slot.open("b", "payload-b", time.Minute, -1, errSlotBusy)
	assert.ErrorIs(t, err, errSlotBusy)

	// The occupant is untouched
	payload, ok := slot.peek()
	assert.True(t, ok)
	assert.Equal(t, "payload-a", payload)
}

func TestPendingSlotStaleResolve(t *testing.T) {
	var slot pendingSlot[string, int]

	_, err := slot.open("a", "payload-a", time.Minute, -1, errSlotBusy)
	require.NoError(t, err)

	assert.False(t, slot.resolve("b", 1), "mismatched id must be a no-op")
	assert.True(t, slot.resolve("a", 2))
	assert.False(t, slot.resolve("a", 3), "second resolve of the same id must be a no-op")
}

func TestPendingSlotTimeoutResolvesExactlyOnce(t *testing.T) {
	var slot pendingSlot[string, int]

	done, err := slot.open("a", "payload-a", 10*time.Millisecond, -1, errSlotBusy)
	require.NoError(t, err)

	select {
	case result := <-done:
		assert.Equal(t, -1, result)
	case <-time.After(time.Second):
		t.Fatal("timer never resolved the slot")
	}

	// A late explicit resolve loses the race and reports failure
	assert.False(t, slot.resolve("a", 42))
}

func TestPendingSlotExplicitResolveBeatsTimer(t *testing.T) {
	var slot pendingSlot[string, int]

	done, err := slot.open("a", "payload-a", 50*time.Millisecond, -1, errSlotBusy)
	require.NoError(t, err)

	require.True(t, slot.resolve("a", 7))
	assert.Equal(t, 7, <-done)

	// The cancelled timer must not deliver a second result
	select {
	case extra := <-done:
		t.Fatalf("unexpected second resolution: %d", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPendingSlotClear(t *testing.T) {
	var slot pendingSlot[string, int]

	done, err := slot.open("a", "payload-a", time.Minute, -1, errSlotBusy)
	require.NoError(t, err)

	slot.clear(0)
	assert.Equal(t, 0, <-done)

	// Clearing an empty slot is a no-op
	slot.clear(0)

	_, ok := slot.peek()
	assert.False(t, ok)
}
