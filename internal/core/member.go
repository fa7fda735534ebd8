package core

import "time"

// Member is a connection's presence record inside one room.
type Member struct {
	Username string
	Avatar   string
	Typing   bool
	JoinedAt time.Time

	// VoiceMessageCount is reserved; nothing reads or increments it yet.
	VoiceMessageCount int
}

// NewMember constructs a member with the typing flag cleared.
func NewMember(username, avatar string) *Member {
	return &Member{
		Username: username,
		Avatar:   avatar,
		JoinedAt: time.Now(),
	}
}
