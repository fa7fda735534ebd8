package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/madax098/andrios12/internal/config"
	"github.com/madax098/andrios12/internal/core"
	"github.com/madax098/andrios12/internal/proto"
)

// outbound mirrors proto.Outbound with raw data so tests can decode payloads
// per event.
type outbound struct {
	Type  string          `json:"type"`
	ID    int64           `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.New(nil)
	hub := core.NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, id int64, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, ID: id, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil consumes outbounds until match returns true.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(outbound) bool) outbound {
	t.Helper()

	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(out) {
			return out
		}
	}
}

func readAck(t *testing.T, ctx context.Context, conn *websocket.Conn, id int64) outbound {
	t.Helper()
	return readUntil(t, ctx, conn, func(o outbound) bool {
		return o.Type == proto.OutboundTypeAck && o.ID == id
	})
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, name string) outbound {
	t.Helper()
	return readUntil(t, ctx, conn, func(o outbound) bool {
		return o.Type == proto.OutboundTypeEvent && o.Event == name
	})
}

func connID(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()

	out := readEvent(t, ctx, conn, proto.EventNameConnected)
	var data proto.ConnectedData
	if err := json.Unmarshal(out.Data, &data); err != nil {
		t.Fatalf("decode connected: %v", err)
	}
	if data.UserID == "" {
		t.Fatal("empty connection id")
	}
	return data.UserID
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketRoomLifecycle(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA := dial(t, ctx, ts)
	connID(t, ctx, connA)

	connB := dial(t, ctx, ts)
	bID := connID(t, ctx, connB)

	// A creates the room.
	send(t, ctx, connA, proto.InboundTypeCreateRoom, 1, proto.CreateRoomData{
		Room: "lobby", Pin: "123", Username: "Ada", Avatar: "🧑‍💻",
	})
	ack := readAck(t, ctx, connA, 1)
	if ack.Error != nil {
		t.Fatalf("create failed: %+v", ack.Error)
	}

	// B joins with the right PIN.
	send(t, ctx, connB, proto.InboundTypeJoinRoom, 2, proto.JoinRoomData{
		Room: "lobby", Pin: "123", Username: "Bob", Avatar: "👻",
	})
	joinAckOut := readAck(t, ctx, connB, 2)
	if joinAckOut.Error != nil {
		t.Fatalf("join failed: %+v", joinAckOut.Error)
	}
	var joinAck proto.JoinAck
	if err := json.Unmarshal(joinAckOut.Data, &joinAck); err != nil {
		t.Fatalf("decode join ack: %v", err)
	}
	if !joinAck.Success || joinAck.IsOwner || joinAck.PinnedMessage != nil {
		t.Fatalf("unexpected join ack: %+v", joinAck)
	}

	// Both see the full two-member snapshot (A first receives the one-member
	// snapshot from room creation).
	for _, conn := range []*websocket.Conn{connA, connB} {
		readUntil(t, ctx, conn, func(o outbound) bool {
			if o.Type != proto.OutboundTypeEvent || o.Event != proto.EventNameOnlineUsers {
				return false
			}
			var names []string
			if json.Unmarshal(o.Data, &names) != nil {
				return false
			}
			return len(names) == 2 && names[0] == "Ada" && names[1] == "Bob"
		})
		readUntil(t, ctx, conn, func(o outbound) bool {
			if o.Type != proto.OutboundTypeEvent || o.Event != proto.EventNameOnlineCount {
				return false
			}
			var n int
			return json.Unmarshal(o.Data, &n) == nil && n == 2
		})
	}

	// B's message is echoed to everyone, including B.
	send(t, ctx, connB, proto.InboundTypeMsg, 0, proto.MsgData{
		Room: "lobby", Username: "Bob", Avatar: "👻", Message: "hi",
	})
	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := readEvent(t, ctx, conn, proto.EventNameMessage)
		var data proto.EventMessage
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if data.Username != "Bob" || data.Message != "hi" || data.Timestamp == 0 {
			t.Fatalf("unexpected message: %+v", data)
		}
	}

	// A kicks B; B is told directly.
	send(t, ctx, connA, proto.InboundTypeKick, 3, proto.KickData{Room: "lobby", UserID: bID})
	if ack := readAck(t, ctx, connA, 3); ack.Error != nil {
		t.Fatalf("kick failed: %+v", ack.Error)
	}
	kicked := readEvent(t, ctx, connB, proto.EventNameUserKicked)
	var kickedData proto.EventUserKicked
	if err := json.Unmarshal(kicked.Data, &kickedData); err != nil {
		t.Fatalf("decode user_kicked: %v", err)
	}
	if kickedData.UserID != bID {
		t.Fatalf("unexpected kicked id: %s", kickedData.UserID)
	}

	readUntil(t, ctx, connA, func(o outbound) bool {
		if o.Type != proto.OutboundTypeEvent || o.Event != proto.EventNameOnlineCount {
			return false
		}
		var n int
		return json.Unmarshal(o.Data, &n) == nil && n == 1
	})

	// A disconnects; the empty room dies and its name becomes free.
	connA.Close(websocket.StatusNormalClosure, "bye")

	connC := dial(t, ctx, ts)
	connID(t, ctx, connC)

	deadline := time.Now().Add(5 * time.Second)
	for {
		send(t, ctx, connC, proto.InboundTypeJoinRoom, 4, proto.JoinRoomData{
			Room: "lobby", Pin: "123", Username: "Carol", Avatar: "🦊",
		})
		ack := readAck(t, ctx, connC, 4)
		if ack.Error != nil && ack.Error.Code == core.ErrCodeRoomNotFound {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("room still reachable after owner disconnect: %+v", ack)
		}
		// The join may have won the race against A's disconnect; back out so
		// the room can empty and die.
		send(t, ctx, connC, proto.InboundTypeLeaveRoom, 0, proto.LeaveRoomData{Room: "lobby"})
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWebSocketWrongPinAndBadPayload(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	connID(t, ctx, conn)

	send(t, ctx, conn, proto.InboundTypeCreateRoom, 1, proto.CreateRoomData{
		Room: "lobby", Pin: "123", Username: "Ada", Avatar: "🐱",
	})
	readAck(t, ctx, conn, 1)

	other := dial(t, ctx, ts)
	connID(t, ctx, other)

	send(t, ctx, other, proto.InboundTypeJoinRoom, 2, proto.JoinRoomData{
		Room: "lobby", Pin: "321", Username: "Bob", Avatar: "🐶",
	})
	ack := readAck(t, ctx, other, 2)
	if ack.Error == nil || ack.Error.Code != core.ErrCodeWrongPin {
		t.Fatalf("expected wrong_pin, got %+v", ack)
	}

	// A request/ack type with a missing field earns a bad_request, and the
	// connection stays usable.
	send(t, ctx, other, proto.InboundTypeJoinRoom, 3, proto.JoinRoomData{Pin: "123"})
	errOut := readUntil(t, ctx, other, func(o outbound) bool {
		return o.Type == proto.OutboundTypeError && o.ID == 3
	})
	if errOut.Error == nil || errOut.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", errOut)
	}

	send(t, ctx, other, proto.InboundTypeJoinRoom, 4, proto.JoinRoomData{
		Room: "lobby", Pin: "123", Username: "Bob", Avatar: "🐶",
	})
	if ack := readAck(t, ctx, other, 4); ack.Error != nil {
		t.Fatalf("join after bad_request failed: %+v", ack.Error)
	}
}
