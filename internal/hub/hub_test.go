package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/draftarena/tcg-draft-backend/internal/engine"
	"github.com/draftarena/tcg-draft-backend/internal/room"
	"github.com/draftarena/tcg-draft-backend/internal/rules"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, room.Deps{
		Log:    zap.NewNop(),
		Timers: room.Timers{TurnSec: 45, ReserveSec: 180},
	})
}

func testSession(t *testing.T, code string) engine.Session {
	t.Helper()
	m, err := rules.Resolve("classic")
	require.NoError(t, err)
	return engine.NewSession(code, m, "u-blue", "Alice")
}

func getRoom(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case r := <-reply:
		return r
	case <-time.After(time.Second):
		t.Fatalf("timed out getting room")
		return nil
	}
}

func TestHub_CreateGetSamePointer(t *testing.T) {
	h := newTestHub(t)

	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateRoom{Sess: testSession(t, "AAA111"), Reply: reply}
	r1 := <-reply

	r2 := getRoom(t, h, "AAA111")
	require.NotNil(t, r1)
	require.Same(t, r1, r2)
}

func TestHub_CreateExistingCodeReturnsExisting(t *testing.T) {
	h := newTestHub(t)

	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateRoom{Sess: testSession(t, "AAA111"), Reply: reply}
	r1 := <-reply

	h.Inbox() <- CreateRoom{Sess: testSession(t, "AAA111"), Reply: reply}
	r2 := <-reply
	require.Same(t, r1, r2)
}

func TestHub_GetUnknownRoomIsNil(t *testing.T) {
	h := newTestHub(t)
	require.Nil(t, getRoom(t, h, "NOPE00"))
}

func TestHub_SweepRemovesIdleRooms(t *testing.T) {
	h := newTestHub(t)

	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateRoom{Sess: testSession(t, "AAA111"), Reply: reply}
	<-reply

	// Fresh rooms survive a sweep with a generous threshold.
	h.Inbox() <- SweepIdle{MaxAge: time.Hour}
	require.NotNil(t, getRoom(t, h, "AAA111"))

	// With a zero threshold everything is stale.
	time.Sleep(10 * time.Millisecond)
	h.Inbox() <- SweepIdle{MaxAge: 0}
	require.Eventually(t, func() bool {
		return getRoom(t, h, "AAA111") == nil
	}, time.Second, 10*time.Millisecond)
}

func TestHub_RemoveRoom(t *testing.T) {
	h := newTestHub(t)

	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateRoom{Sess: testSession(t, "AAA111"), Reply: reply}
	<-reply

	h.Inbox() <- RemoveRoom{Code: "AAA111"}
	require.Eventually(t, func() bool {
		return getRoom(t, h, "AAA111") == nil
	}, time.Second, 10*time.Millisecond)
}
