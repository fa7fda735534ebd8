package core

// RoomStore owns the room name -> room mapping and its lifecycle.
//
// Creation is atomic with respect to the duplicate check and deletion happens
// only when a membership change empties a room, never on a timer. The store
// is confined to the hub goroutine; a caller running it from multiple
// goroutines must serialize access itself.
type RoomStore struct {
	rooms map[string]*Room
}

// NewRoomStore constructs an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// Create registers a new room. It fails if the name is already taken,
// leaving the existing room untouched.
func (s *RoomStore) Create(name, pin, ownerID string) (*Room, *CoreError) {
	if _, exists := s.rooms[name]; exists {
		return nil, errDuplicateRoom()
	}
	room := NewRoom(name, pin, ownerID)
	s.rooms[name] = room
	return room, nil
}

// Get looks up a room by name.
func (s *RoomStore) Get(name string) (*Room, bool) {
	room, ok := s.rooms[name]
	return room, ok
}

// Delete removes a room by name. Unknown names are a no-op.
func (s *RoomStore) Delete(name string) {
	delete(s.rooms, name)
}

// Len returns the number of active rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}
