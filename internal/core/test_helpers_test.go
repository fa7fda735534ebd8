package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	logger := zerolog.New(nil)
	hub := NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// ensureNoEvent drains pending events and fails if one of the given kind shows up.
func ensureNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			return
		}
	}
}

// waitForCount drains events until an online count snapshot with the given
// value arrives.
func waitForCount(t *testing.T, ch <-chan *Event, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == EventOnlineCount && ev.Count == n {
				return
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("online count %d not observed", n)
}

func mustAck(t *testing.T, cmd *Command) *Ack {
	t.Helper()

	select {
	case ack := <-cmd.Reply:
		return ack
	case <-time.After(2 * time.Second):
		t.Fatalf("no ack received for command kind %v", cmd.Kind)
		return nil
	}
}

func createCmd(room, pin, username, avatar string) *Command {
	return &Command{
		Kind:     CommandCreateRoom,
		Room:     room,
		Pin:      pin,
		Username: username,
		Avatar:   avatar,
		Reply:    make(chan *Ack, 1),
	}
}

func joinCmd(room, pin, username, avatar string) *Command {
	return &Command{
		Kind:     CommandJoinRoom,
		Room:     room,
		Pin:      pin,
		Username: username,
		Avatar:   avatar,
		Reply:    make(chan *Ack, 1),
	}
}

func kickCmd(room, targetID string) *Command {
	return &Command{
		Kind:     CommandKickUser,
		Room:     room,
		TargetID: targetID,
		Reply:    make(chan *Ack, 1),
	}
}

func changePinCmd(room, newPin string) *Command {
	return &Command{
		Kind:  CommandChangePin,
		Room:  room,
		Pin:   newPin,
		Reply: make(chan *Ack, 1),
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
