package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Hub coordinates rooms, sessions and broadcasts.
//
// All room mutations run on the single goroutine inside Run, which is what
// gives every operation its atomicity: commands from one connection are
// handled in arrival order, commands from different connections are handled
// one at a time, and no handler suspends between reading and writing room
// state. The room store and the session map must never be touched from
// anywhere else.
type Hub struct {
	log   *zerolog.Logger
	rooms *RoomStore

	clients  map[string]*Client
	sessions map[string]string // connection id -> room name, at most one room per connection

	register   chan hubRequest
	unregister chan hubRequest
	commands   chan clientCommand
}

type hubRequest struct {
	client *Client
	done   chan struct{}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates a new hub instance.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		log:        logger,
		rooms:      NewRoomStore(),
		clients:    make(map[string]*Client),
		sessions:   make(map[string]string),
		register:   make(chan hubRequest),
		unregister: make(chan hubRequest),
		commands:   make(chan clientCommand, 64),
	}
}

// RegisterClient adds a client to the hub and starts consuming its commands.
// It returns once the hub has picked the client up.
func (h *Hub) RegisterClient(c *Client) {
	req := hubRequest{client: c, done: make(chan struct{})}
	h.register <- req
	<-req.done
}

// UnregisterClient removes a client, treating the disconnect as an implicit
// leave of its room. It returns once the cleanup has run, so the transport
// can tear the connection down afterwards.
func (h *Hub) UnregisterClient(c *Client) {
	req := hubRequest{client: c, done: make(chan struct{})}
	h.unregister <- req
	<-req.done
}

// Run processes registrations and commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.register:
			h.clients[req.client.ID] = req.client
			go h.pump(ctx, req.client)
			close(req.done)
		case req := <-h.unregister:
			h.disconnect(req.client)
			close(req.done)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		}
	}
}

// pump forwards one client's commands into the shared hub queue, preserving
// per-connection ordering.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	// A command can still arrive after the disconnect for its client has
	// run: the pump may forward a buffered command before it notices the
	// closed done channel. Acting on it would re-add a dead client to a
	// room and later broadcast into its closed Events channel, so late
	// commands are dropped here. Nobody is left to read an ack anyway.
	if current, ok := h.clients[c.ID]; !ok || current != c {
		h.log.Debug().Str("conn", c.ID).Int("kind", int(cmd.Kind)).Msg("dropping command from disconnected client")
		return
	}

	switch cmd.Kind {
	case CommandCreateRoom:
		h.reply(cmd, h.createRoom(c, cmd))
	case CommandJoinRoom:
		h.reply(cmd, h.joinRoom(c, cmd))
	case CommandKickUser:
		h.reply(cmd, h.kickUser(c, cmd))
	case CommandChangePin:
		h.reply(cmd, h.changePin(c, cmd))
	case CommandLeaveRoom:
		h.drop(cmd, h.leaveRoom(c, cmd.Room))
	case CommandSendMessage:
		h.drop(cmd, h.sendMessage(cmd))
	case CommandSendVoiceMessage:
		h.drop(cmd, h.sendVoiceMessage(cmd))
	case CommandTyping:
		h.drop(cmd, h.typing(c, cmd))
	case CommandPinMessage:
		h.drop(cmd, h.pinMessage(c, cmd))
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

// reply delivers an ack without blocking the hub loop.
func (h *Hub) reply(cmd *Command, ack *Ack) {
	if cmd.Reply == nil {
		return
	}
	select {
	case cmd.Reply <- ack:
	default:
	}
}

// drop records the result of a fire-and-forget command. There is no ack
// channel for these, so a failure is logged and otherwise discarded.
func (h *Hub) drop(cmd *Command, cerr *CoreError) {
	if cerr != nil {
		h.log.Debug().
			Int("kind", int(cmd.Kind)).
			Str("room", cmd.Room).
			Str("code", cerr.Code).
			Msg("dropping error for ack-less command")
	}
}

func (h *Hub) createRoom(c *Client, cmd *Command) *Ack {
	room, cerr := h.rooms.Create(cmd.Room, cmd.Pin, c.ID)
	if cerr != nil {
		return &Ack{Err: cerr}
	}

	// One room per connection: creating a room while in another one leaves
	// the old room first.
	h.leaveCurrent(c, cmd.Room)

	room.AddMember(c, NewMember(cmd.Username, cmd.Avatar))
	h.sessions[c.ID] = room.Name
	h.broadcastPresence(room)

	h.log.Info().
		Str("room", room.Name).
		Str("owner", c.ID).
		Str("username", cmd.Username).
		Msg("room created")
	return &Ack{}
}

func (h *Hub) joinRoom(c *Client, cmd *Command) *Ack {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return &Ack{Err: errRoomNotFound()}
	}
	// Exact string match, no normalization. Checked at join time only.
	if room.Pin != cmd.Pin {
		return &Ack{Err: errWrongPin()}
	}

	h.leaveCurrent(c, room.Name)

	room.AddMember(c, NewMember(cmd.Username, cmd.Avatar))
	h.sessions[c.ID] = room.Name
	h.broadcastPresence(room)

	h.log.Info().
		Str("room", room.Name).
		Str("conn", c.ID).
		Str("username", cmd.Username).
		Msg("user joined")
	return &Ack{IsOwner: room.OwnerID == c.ID, Pinned: room.Pinned}
}

func (h *Hub) leaveRoom(c *Client, name string) *CoreError {
	room, ok := h.rooms.Get(name)
	if !ok {
		return errRoomNotFound()
	}
	if !room.RemoveMember(c.ID) {
		return errUserNotFound()
	}
	delete(h.sessions, c.ID)
	h.afterRemoval(room)

	h.log.Info().Str("room", name).Str("conn", c.ID).Msg("user left")
	return nil
}

func (h *Hub) kickUser(c *Client, cmd *Command) *Ack {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return &Ack{Err: errRoomNotFound()}
	}
	if room.OwnerID != c.ID {
		return &Ack{Err: errUnauthorized()}
	}
	target, ok := h.clients[cmd.TargetID]
	if !ok || !room.RemoveMember(cmd.TargetID) {
		return &Ack{Err: errUserNotFound()}
	}
	delete(h.sessions, cmd.TargetID)

	// The kicked connection stays alive; only its membership is gone. It is
	// told directly because it no longer receives room broadcasts.
	kicked := &Event{Kind: EventUserKicked, Room: room.Name, KickedID: cmd.TargetID}
	target.Send(kicked)
	room.Broadcast(kicked)
	h.afterRemoval(room)

	h.log.Info().
		Str("room", room.Name).
		Str("owner", c.ID).
		Str("target", cmd.TargetID).
		Msg("user kicked")
	return &Ack{}
}

func (h *Hub) changePin(c *Client, cmd *Command) *Ack {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return &Ack{Err: errRoomNotFound()}
	}
	if room.OwnerID != c.ID {
		return &Ack{Err: errUnauthorized()}
	}
	// Effective for subsequent joins only; members already inside keep
	// their seats.
	room.Pin = cmd.Pin
	return &Ack{}
}

func (h *Hub) pinMessage(c *Client, cmd *Command) *CoreError {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return errRoomNotFound()
	}
	if room.OwnerID != c.ID {
		return errUnauthorized()
	}
	room.Pinned = &PinnedMessage{MessageID: cmd.MessageID, Text: cmd.Text}
	room.Broadcast(&Event{Kind: EventPinnedMessage, Room: room.Name, Pinned: room.Pinned})
	return nil
}

func (h *Hub) typing(c *Client, cmd *Command) *CoreError {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return errRoomNotFound()
	}
	member, ok := room.Member(c.ID)
	if !ok {
		// Stale typing events after a leave are expected; ignore them.
		return errUserNotFound()
	}
	member.Typing = cmd.Typing
	room.Broadcast(&Event{Kind: EventTypingUsers, Room: room.Name, Users: room.TypingUsernames()})
	return nil
}

func (h *Hub) sendMessage(cmd *Command) *CoreError {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return errRoomNotFound()
	}
	// Everyone gets the broadcast, including the sender: the echo is the
	// only path that paints the message on the sending client too.
	room.Broadcast(&Event{
		Kind:      EventMessage,
		Room:      room.Name,
		Username:  cmd.Username,
		Avatar:    cmd.Avatar,
		Text:      cmd.Text,
		Timestamp: time.Now(),
	})
	return nil
}

func (h *Hub) sendVoiceMessage(cmd *Command) *CoreError {
	room, ok := h.rooms.Get(cmd.Room)
	if !ok {
		return errRoomNotFound()
	}
	// The payload is opaque to the server: no validation, no size limit,
	// no transcoding.
	room.Broadcast(&Event{
		Kind:     EventVoiceMessage,
		Room:     room.Name,
		Username: cmd.Username,
		Avatar:   cmd.Avatar,
		Audio:    cmd.Audio,
	})
	return nil
}

// leaveCurrent removes the client from whatever room it is in, unless that
// room is the one named next. Keeps the one-room-per-connection invariant.
func (h *Hub) leaveCurrent(c *Client, next string) {
	current, ok := h.sessions[c.ID]
	if !ok || current == next {
		return
	}
	if room, ok := h.rooms.Get(current); ok {
		room.RemoveMember(c.ID)
		h.afterRemoval(room)
	}
	delete(h.sessions, c.ID)
}

// afterRemoval finishes a membership-reducing mutation: an empty room dies
// immediately, a non-empty one gets a fresh presence snapshot.
func (h *Hub) afterRemoval(room *Room) {
	if room.Empty() {
		h.rooms.Delete(room.Name)
		h.log.Info().Str("room", room.Name).Msg("room deleted")
		return
	}
	h.broadcastPresence(room)
}

// broadcastPresence pushes the full member list and count to the room.
func (h *Hub) broadcastPresence(room *Room) {
	room.Broadcast(&Event{Kind: EventOnlineUsers, Room: room.Name, Users: room.Usernames()})
	room.Broadcast(&Event{Kind: EventOnlineCount, Room: room.Name, Count: room.Len()})
}

// disconnect handles a closed connection as an implicit leave.
func (h *Hub) disconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	if name, ok := h.sessions[c.ID]; ok {
		if room, ok := h.rooms.Get(name); ok {
			room.RemoveMember(c.ID)
			h.afterRemoval(room)
		}
		delete(h.sessions, c.ID)
	}
	delete(h.clients, c.ID)
	close(c.done)
	close(c.Events)

	h.log.Info().Str("conn", c.ID).Msg("client disconnected")
}
