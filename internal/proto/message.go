package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client. ID is an
// optional client-chosen correlation number echoed back on the ack; only the
// request/ack types make use of it.
type Inbound struct {
	Type string          `json:"type"`
	ID   int64           `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeCreateRoom = "create_room"
	InboundTypeJoinRoom   = "join_room"
	InboundTypeLeaveRoom  = "leave_room"
	InboundTypeMsg        = "msg"
	InboundTypeVoice      = "voice"
	InboundTypeTyping     = "typing"
	InboundTypeKick       = "kick"
	InboundTypeChangePin  = "change_pin"
	InboundTypePinMsg     = "pin_msg"

	OutboundTypeAck   = "ack"
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameConnected    = "connected"
	EventNameMessage      = "message"
	EventNameVoiceMessage = "voice_message"
	EventNameOnlineUsers  = "online_users"
	EventNameOnlineCount  = "online_count"
	EventNameTypingUsers  = "typing_users"
	EventNamePinned       = "pinned_message"
	EventNameUserKicked   = "user_kicked"
)

// CreateRoomData creates a room with the caller as owner.
type CreateRoomData struct {
	Room     string `json:"roomName"`
	Pin      string `json:"pin"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// JoinRoomData requests to join a specific room.
type JoinRoomData struct {
	Room     string `json:"roomName"`
	Pin      string `json:"pin"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// LeaveRoomData leaves a room. Fire-and-forget.
type LeaveRoomData struct {
	Room string `json:"roomName"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room     string `json:"roomName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Message  string `json:"message"`
}

// VoiceData is a voice message from the client. AudioBlob is opaque to the
// server and relayed verbatim.
type VoiceData struct {
	Room      string `json:"roomName"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	AudioBlob string `json:"audioBlob"`
}

// TypingData updates the caller's typing indicator.
type TypingData struct {
	Room     string `json:"roomName"`
	IsTyping bool   `json:"isTyping"`
}

// KickData asks to remove another member. Owner only.
type KickData struct {
	Room   string `json:"roomName"`
	UserID string `json:"userId"`
}

// ChangePinData replaces the room PIN. Owner only.
type ChangePinData struct {
	Room   string `json:"roomName"`
	NewPin string `json:"newPin"`
}

// PinMsgData sets the pinned message slot. Owner only, fire-and-forget.
type PinMsgData struct {
	Room      string `json:"roomName"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	ID    int64  `json:"id,omitempty"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// SimpleAck acknowledges create, kick and change_pin requests.
type SimpleAck struct {
	Success bool `json:"success"`
}

// JoinAck acknowledges a successful join. PinnedMessage is null when the
// room has nothing pinned.
type JoinAck struct {
	Success       bool         `json:"success"`
	IsOwner       bool         `json:"isOwner"`
	PinnedMessage *EventPinned `json:"pinnedMessage"`
}

// ConnectedData tells a fresh connection its identifier, the handle other
// clients use to address it (for example when kicking).
type ConnectedData struct {
	UserID string `json:"userId"`
}

// EventMessage is a relayed text message, echoed to the sender as well.
type EventMessage struct {
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// EventVoiceMessage is a relayed voice message.
type EventVoiceMessage struct {
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	AudioBlob string `json:"audioBlob"`
}

// EventPinned is the room's pinned message slot.
type EventPinned struct {
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// EventUserKicked names the connection removed by the room owner.
type EventUserKicked struct {
	UserID string `json:"userId"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
