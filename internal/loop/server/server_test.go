package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndUnregister(t *testing.T) {
	s := NewServer(nil)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 2, s.Count())

	s.UnregisterClient(a.ID)
	assert.Equal(t, 1, s.Count())

	ev, open := <-a.EventsCh
	require.True(t, open, "pending notice is delivered before the close")
	assert.Equal(t, "bob joined (2 online)", ev.Message)
	_, open = <-a.EventsCh
	assert.False(t, open, "events channel closed on unregister")

	// Unknown and repeated IDs are ignored.
	s.UnregisterClient(a.ID)
	s.UnregisterClient(42)
	assert.Equal(t, 1, s.Count())
}

func TestNotices(t *testing.T) {
	s := NewServer(nil)
	a := s.RegisterClient("alice")
	b := s.RegisterClient("")

	require.Len(t, a.EventsCh, 1)
	ev := <-a.EventsCh
	assert.Equal(t, EventNotice, ev.Type)
	assert.Equal(t, "someone joined (2 online)", ev.Message)
	assert.Empty(t, b.EventsCh, "no notice about yourself")

	s.UnregisterClient(a.ID)
	ev = <-b.EventsCh
	assert.Equal(t, "alice left (1 online)", ev.Message)
}

func TestShutdownWaitsForClients(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("alice")

	go func() {
		for ev := range h.EventsCh {
			if ev.Type == EventServerShutdown {
				s.UnregisterClient(h.ID)
			}
		}
	}()

	assert.True(t, s.Shutdown(time.Second))
	assert.Zero(t, s.Count())
}

func TestShutdownTimeout(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("idle")

	assert.False(t, s.Shutdown(20*time.Millisecond))
	assert.Equal(t, 1, s.Count())

	ev := <-h.EventsCh
	assert.Equal(t, EventServerShutdown, ev.Type)
}

func TestShutdownEmpty(t *testing.T) {
	assert.True(t, NewServer(nil).Shutdown(time.Millisecond))
}

func TestShutdownReachesFullChannel(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("busy")
	for len(h.EventsCh) < cap(h.EventsCh) {
		h.EventsCh <- ClientEvent{Type: EventNotice, Message: "filler"}
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		for ev := range h.EventsCh {
			if ev.Type == EventServerShutdown {
				s.UnregisterClient(h.ID)
			}
		}
	}()

	assert.True(t, s.Shutdown(time.Second))
	assert.Zero(t, s.Count())
}
