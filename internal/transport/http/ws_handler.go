package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/madax098/andrios12/internal/core"
	"github.com/madax098/andrios12/internal/proto"
	"github.com/madax098/andrios12/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(utils.NewID())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	h.log.Info().Str("conn", client.ID).Msg("client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Tell the client its connection id before anything else; kicks address
	// members by this id.
	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameConnected,
		Data:  proto.ConnectedData{UserID: client.ID},
	}); err != nil {
		h.log.Warn().Err(err).Msg("write connected event")
		return
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop consumes inbound envelopes. Request/ack commands block the loop
// until the hub replies, which keeps per-connection processing in arrival
// order; the hub never does I/O inside a handler, so the wait is short.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				ID:    inbound.ID,
				Error: protoErr,
			}); err != nil {
				return err
			}
			continue
		}
		if cmd == nil {
			// Fire-and-forget with a bad shape: no ack channel, no feedback.
			h.log.Debug().Str("type", inbound.Type).Str("conn", client.ID).Msg("ignoring malformed inbound")
			continue
		}

		select {
		case client.Commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}

		if cmd.Reply == nil {
			continue
		}
		select {
		case ack := <-cmd.Reply:
			if err := wsjson.Write(ctx, conn, ackToOutbound(cmd, inbound.ID, ack)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
