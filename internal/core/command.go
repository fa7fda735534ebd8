package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom creates a room and makes the caller its owner.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom joins an existing room after a PIN check.
	CommandJoinRoom
	// CommandLeaveRoom removes the caller from a room.
	CommandLeaveRoom
	// CommandSendMessage relays a text message to room members.
	CommandSendMessage
	// CommandSendVoiceMessage relays an opaque audio payload to room members.
	CommandSendVoiceMessage
	// CommandTyping updates the caller's typing flag.
	CommandTyping
	// CommandKickUser forcibly removes another member. Owner only.
	CommandKickUser
	// CommandChangePin replaces the room PIN. Owner only.
	CommandChangePin
	// CommandPinMessage sets the pinned message slot. Owner only.
	CommandPinMessage
)

// Command represents an action requested by a client.
//
// Reply is non-nil only for the request/ack command kinds (create, join,
// kick, change pin). The remaining kinds are fire-and-forget: they have no
// acknowledgment channel and their failures are dropped after logging.
type Command struct {
	Kind      CommandKind
	Room      string
	Pin       string
	Username  string
	Avatar    string
	Text      string
	Audio     string
	MessageID string
	Typing    bool
	TargetID  string

	Reply chan *Ack
}

// Ack is the synchronous result of a request/ack command.
type Ack struct {
	Err *CoreError

	// Join result; meaningful only for CommandJoinRoom.
	IsOwner bool
	Pinned  *PinnedMessage
}

// OK reports whether the command succeeded.
func (a *Ack) OK() bool {
	return a.Err == nil
}
