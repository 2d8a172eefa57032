package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	messages [][]byte
	ok       bool
}

func (f *fakeClient) Send(message []byte) bool {
	f.messages = append(f.messages, message)
	return f.ok
}

func (f *fakeClient) Close() {}

func TestHub_BroadcastReachesAllWatchers(t *testing.T) {
	h := GetHub()
	a := &fakeClient{ok: true}
	b := &fakeClient{ok: true}
	h.Register(a)
	h.Register(b)
	defer h.Unregister(a)
	defer h.Unregister(b)

	h.Broadcast([]byte(`{"type":"key_inserted","key":"k"}`))
	require.Len(t, a.messages, 1)
	require.Len(t, b.messages, 1)
}

func TestHub_FailedSendDoesNotStopDelivery(t *testing.T) {
	h := GetHub()
	bad := &fakeClient{ok: false}
	good := &fakeClient{ok: true}
	h.Register(bad)
	h.Register(good)
	defer h.Unregister(bad)
	defer h.Unregister(good)

	// The unresponsive client is only logged; the rest still get the event.
	h.Broadcast([]byte(`{"type":"key_deleted","key":"k"}`))
	require.Len(t, bad.messages, 1)
	require.Len(t, good.messages, 1)
}

func TestHub_Len(t *testing.T) {
	h := GetHub()
	require.Equal(t, 0, h.Len())
	c := &fakeClient{ok: true}
	h.Register(c)
	require.Equal(t, 1, h.Len())
	h.Unregister(c)
	require.Equal(t, 0, h.Len())
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	h := GetHub()
	c := &fakeClient{ok: true}
	h.Register(c)
	h.Unregister(c)

	h.Broadcast([]byte(`{}`))
	require.Empty(t, c.messages)
}
