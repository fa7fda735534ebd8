package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage carries a relayed text message.
	EventMessage EventKind = iota
	// EventVoiceMessage carries a relayed audio payload.
	EventVoiceMessage
	// EventOnlineUsers is the full member name list after a membership change.
	EventOnlineUsers
	// EventOnlineCount is the member count after a membership change.
	EventOnlineCount
	// EventTypingUsers is the full list of members currently typing.
	EventTypingUsers
	// EventPinnedMessage announces a new pinned message.
	EventPinnedMessage
	// EventUserKicked announces that a connection was removed by the owner.
	EventUserKicked
)

// Event is sent to clients to describe what happened in a room. Presence and
// typing events are full replacement snapshots, never deltas: every change
// recomputes the whole view so clients never need merge logic.
type Event struct {
	Kind EventKind
	Room string

	// Message relay fields.
	Username  string
	Avatar    string
	Text      string
	Audio     string
	Timestamp time.Time

	// Presence and typing snapshots.
	Users []string
	Count int

	Pinned   *PinnedMessage
	KickedID string
}
