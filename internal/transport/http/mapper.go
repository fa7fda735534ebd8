package http

import (
	"encoding/json"

	"github.com/madax098/andrios12/internal/core"
	"github.com/madax098/andrios12/internal/proto"
)

// inboundToCommand maps an envelope to a core command. A nil command with a
// nil error means the inbound is silently ignored: fire-and-forget types
// have no reply channel, so a malformed one gets no feedback by design.
// Request/ack types get a bad_request error back instead.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		var data proto.CreateRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badRequest("invalid create_room payload")
		}
		if data.Room == "" || data.Username == "" {
			return nil, badRequest("roomName and username are required")
		}
		return &core.Command{
			Kind:     core.CommandCreateRoom,
			Room:     data.Room,
			Pin:      data.Pin,
			Username: data.Username,
			Avatar:   data.Avatar,
			Reply:    make(chan *core.Ack, 1),
		}, nil
	case proto.InboundTypeJoinRoom:
		var data proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badRequest("invalid join_room payload")
		}
		if data.Room == "" || data.Username == "" {
			return nil, badRequest("roomName and username are required")
		}
		return &core.Command{
			Kind:     core.CommandJoinRoom,
			Room:     data.Room,
			Pin:      data.Pin,
			Username: data.Username,
			Avatar:   data.Avatar,
			Reply:    make(chan *core.Ack, 1),
		}, nil
	case proto.InboundTypeKick:
		var data proto.KickData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badRequest("invalid kick payload")
		}
		if data.Room == "" || data.UserID == "" {
			return nil, badRequest("roomName and userId are required")
		}
		return &core.Command{
			Kind:     core.CommandKickUser,
			Room:     data.Room,
			TargetID: data.UserID,
			Reply:    make(chan *core.Ack, 1),
		}, nil
	case proto.InboundTypeChangePin:
		var data proto.ChangePinData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badRequest("invalid change_pin payload")
		}
		if data.Room == "" {
			return nil, badRequest("roomName is required")
		}
		return &core.Command{
			Kind:  core.CommandChangePin,
			Room:  data.Room,
			Pin:   data.NewPin,
			Reply: make(chan *core.Ack, 1),
		}, nil
	case proto.InboundTypeLeaveRoom:
		var data proto.LeaveRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil || data.Room == "" {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: data.Room}, nil
	case proto.InboundTypeMsg:
		var data proto.MsgData
		if err := json.Unmarshal(inbound.Data, &data); err != nil || data.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:     core.CommandSendMessage,
			Room:     data.Room,
			Username: data.Username,
			Avatar:   data.Avatar,
			Text:     data.Message,
		}, nil
	case proto.InboundTypeVoice:
		var data proto.VoiceData
		if err := json.Unmarshal(inbound.Data, &data); err != nil || data.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:     core.CommandSendVoiceMessage,
			Room:     data.Room,
			Username: data.Username,
			Avatar:   data.Avatar,
			Audio:    data.AudioBlob,
		}, nil
	case proto.InboundTypeTyping:
		var data proto.TypingData
		if err := json.Unmarshal(inbound.Data, &data); err != nil || data.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:   core.CommandTyping,
			Room:   data.Room,
			Typing: data.IsTyping,
		}, nil
	case proto.InboundTypePinMsg:
		var data proto.PinMsgData
		if err := json.Unmarshal(inbound.Data, &data); err != nil || data.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:      core.CommandPinMessage,
			Room:      data.Room,
			MessageID: data.MessageID,
			Text:      data.Message,
		}, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

// ackToOutbound maps a command result to the reply envelope, echoing the
// client's correlation id.
func ackToOutbound(cmd *core.Command, id int64, ack *core.Ack) proto.Outbound {
	if !ack.OK() {
		return proto.Outbound{
			Type:  proto.OutboundTypeAck,
			ID:    id,
			Error: &proto.Error{Code: ack.Err.Code, Msg: ack.Err.Message},
		}
	}
	if cmd.Kind == core.CommandJoinRoom {
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   id,
			Data: proto.JoinAck{
				Success:       true,
				IsOwner:       ack.IsOwner,
				PinnedMessage: pinnedToProto(ack.Pinned),
			},
		}
	}
	return proto.Outbound{
		Type: proto.OutboundTypeAck,
		ID:   id,
		Data: proto.SimpleAck{Success: true},
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return eventOutbound(proto.EventNameMessage, proto.EventMessage{
			Username:  event.Username,
			Avatar:    event.Avatar,
			Message:   event.Text,
			Timestamp: event.Timestamp.UnixMilli(),
		})
	case core.EventVoiceMessage:
		return eventOutbound(proto.EventNameVoiceMessage, proto.EventVoiceMessage{
			Username:  event.Username,
			Avatar:    event.Avatar,
			AudioBlob: event.Audio,
		})
	case core.EventOnlineUsers:
		return eventOutbound(proto.EventNameOnlineUsers, event.Users)
	case core.EventOnlineCount:
		return eventOutbound(proto.EventNameOnlineCount, event.Count)
	case core.EventTypingUsers:
		return eventOutbound(proto.EventNameTypingUsers, event.Users)
	case core.EventPinnedMessage:
		return eventOutbound(proto.EventNamePinned, pinnedToProto(event.Pinned))
	case core.EventUserKicked:
		return eventOutbound(proto.EventNameUserKicked, proto.EventUserKicked{UserID: event.KickedID})
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventOutbound(name string, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}

func pinnedToProto(p *core.PinnedMessage) *proto.EventPinned {
	if p == nil {
		return nil
	}
	return &proto.EventPinned{MessageID: p.MessageID, Message: p.Text}
}
