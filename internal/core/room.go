package core

// PinnedMessage is the single highlighted message slot of a room.
type PinnedMessage struct {
	MessageID string
	Text      string
}

// Room groups the members of one PIN-gated broadcast group.
//
// A room is only ever touched from the hub goroutine, so it carries no lock.
// OwnerID is set at creation and never reassigned; if the owner disconnects,
// owner-gated operations stay unavailable until the room empties and dies.
type Room struct {
	Name    string
	Pin     string
	OwnerID string
	Pinned  *PinnedMessage

	members map[string]*Member
	clients map[string]*Client
	order   []string // connection ids in join order
}

// NewRoom constructs a room with no members.
func NewRoom(name, pin, ownerID string) *Room {
	return &Room{
		Name:    name,
		Pin:     pin,
		OwnerID: ownerID,
		members: make(map[string]*Member),
		clients: make(map[string]*Client),
	}
}

// AddMember inserts or replaces the member entry for a connection.
// A re-join with the same connection id resets the member state but keeps
// the original position in the display order.
func (r *Room) AddMember(c *Client, m *Member) {
	if _, exists := r.members[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	r.members[c.ID] = m
	r.clients[c.ID] = c
}

// RemoveMember deletes a connection's membership. Returns true if removed.
func (r *Room) RemoveMember(connID string) bool {
	if _, exists := r.members[connID]; !exists {
		return false
	}
	delete(r.members, connID)
	delete(r.clients, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Member returns the member record for a connection id.
func (r *Room) Member(connID string) (*Member, bool) {
	m, ok := r.members[connID]
	return m, ok
}

// Has reports whether the connection is a member of the room.
func (r *Room) Has(connID string) bool {
	_, ok := r.members[connID]
	return ok
}

// Usernames returns the member display names in join order.
func (r *Room) Usernames() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.members[id].Username)
	}
	return names
}

// TypingUsernames returns the display names of members currently typing,
// in join order.
func (r *Room) TypingUsernames() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if r.members[id].Typing {
			names = append(names, r.members[id].Username)
		}
	}
	return names
}

// Len returns the current member count.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no members are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Broadcast sends an event to all current members of the room.
func (r *Room) Broadcast(event *Event) {
	for _, client := range r.clients {
		client.Send(event)
	}
}
