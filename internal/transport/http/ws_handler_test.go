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

	"github.com/vovakirdan/roomrelay/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := createTestStore(t)
	hub := newTestHub(st)
	server := NewServer(hub, st, testConfig(), testLogger())

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func sendFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", frameType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); err != nil {
		t.Fatalf("write %s frame: %v", frameType, err)
	}
}

// readUntil reads outbound frames, discarding others, until one of the wanted
// type arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) json.RawMessage {
	t.Helper()

	for {
		var outbound struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read while waiting for %s: %v", wantType, err)
		}
		if outbound.Type == wantType {
			return outbound.Data
		}
	}
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

func TestWebSocketChatFlow(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendFrame(t, ctx, connA, proto.InboundTypeIdentityInit, proto.IdentityInitData{UserID: "u1", Username: "alice"})
	var ack proto.IdentityAckData
	if err := json.Unmarshal(readUntil(t, ctx, connA, proto.OutboundTypeIdentityAck), &ack); err != nil || !ack.OK {
		t.Fatalf("expected identity ack, got err=%v ack=%+v", err, ack)
	}

	sendFrame(t, ctx, connA, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "general"})
	var seed proto.HistorySeedData
	if err := json.Unmarshal(readUntil(t, ctx, connA, proto.OutboundTypeHistorySeed), &seed); err != nil {
		t.Fatalf("unmarshal history seed: %v", err)
	}
	if seed.RoomID != "general" || len(seed.Messages) != 0 {
		t.Fatalf("expected empty seed for fresh room, got %+v", seed)
	}

	sendFrame(t, ctx, connB, proto.InboundTypeIdentityInit, proto.IdentityInitData{UserID: "u2", Username: "bob"})
	readUntil(t, ctx, connB, proto.OutboundTypeIdentityAck)
	sendFrame(t, ctx, connB, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "general"})
	readUntil(t, ctx, connB, proto.OutboundTypeHistorySeed)

	// A sees bob come online plus the updated snapshot.
	var online proto.PresenceChangeData
	if err := json.Unmarshal(readUntil(t, ctx, connA, proto.OutboundTypePresenceOnline), &online); err != nil {
		t.Fatalf("unmarshal online notice: %v", err)
	}
	if online.UserID != "u2" || online.RoomID != "general" {
		t.Fatalf("unexpected online notice: %+v", online)
	}
	var snap proto.PresenceSnapshotData
	if err := json.Unmarshal(readUntil(t, ctx, connA, proto.OutboundTypePresenceSnapshot), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(snap.Users) != 2 {
		t.Fatalf("expected two users in snapshot, got %+v", snap.Users)
	}

	// B joined before the send, so both get the broadcast, sender included.
	sendFrame(t, ctx, connA, proto.InboundTypeMessageSend, proto.MessageSendData{RoomID: "general", Text: "  hi there  "})

	for _, conn := range []*websocket.Conn{connA, connB} {
		var msg proto.MessagePayload
		if err := json.Unmarshal(readUntil(t, ctx, conn, proto.OutboundTypeMessageNew), &msg); err != nil {
			t.Fatalf("unmarshal message-new: %v", err)
		}
		if msg.ID == 0 || msg.Text != "hi there" || msg.Username != "alice" || msg.RoomID != "general" {
			t.Fatalf("unexpected message payload: %+v", msg)
		}
	}
}

func TestWebSocketTypingFanout(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	for i, conn := range []*websocket.Conn{connA, connB} {
		sendFrame(t, ctx, conn, proto.InboundTypeIdentityInit, proto.IdentityInitData{UserID: []string{"u1", "u2"}[i], Username: []string{"alice", "bob"}[i]})
		readUntil(t, ctx, conn, proto.OutboundTypeIdentityAck)
		sendFrame(t, ctx, conn, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "general"})
		readUntil(t, ctx, conn, proto.OutboundTypeHistorySeed)
	}

	sendFrame(t, ctx, connA, proto.InboundTypeTypingStart, proto.RoomData{RoomID: "general"})

	var typing proto.TypingData
	if err := json.Unmarshal(readUntil(t, ctx, connB, proto.OutboundTypeTypingStart), &typing); err != nil {
		t.Fatalf("unmarshal typing notice: %v", err)
	}
	if typing.UserID != "u1" || typing.RoomID != "general" {
		t.Fatalf("unexpected typing notice: %+v", typing)
	}

	var snap proto.PresenceSnapshotData
	if err := json.Unmarshal(readUntil(t, ctx, connB, proto.OutboundTypePresenceSnapshot), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	for _, user := range snap.Users {
		if user.UserID == "u1" && !user.Typing {
			t.Fatalf("expected alice typing in snapshot, got %+v", snap.Users)
		}
	}
}

func TestWebSocketDisconnectFansOutOffline(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	for i, conn := range []*websocket.Conn{connA, connB} {
		sendFrame(t, ctx, conn, proto.InboundTypeIdentityInit, proto.IdentityInitData{UserID: []string{"u1", "u2"}[i], Username: []string{"alice", "bob"}[i]})
		readUntil(t, ctx, conn, proto.OutboundTypeIdentityAck)
		sendFrame(t, ctx, conn, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "general"})
		readUntil(t, ctx, conn, proto.OutboundTypeHistorySeed)
	}

	// Abrupt teardown of A's connection.
	connA.Close(websocket.StatusNormalClosure, "gone")

	var offline proto.PresenceChangeData
	if err := json.Unmarshal(readUntil(t, ctx, connB, proto.OutboundTypePresenceOffline), &offline); err != nil {
		t.Fatalf("unmarshal offline notice: %v", err)
	}
	if offline.UserID != "u1" || offline.RoomID != "general" {
		t.Fatalf("unexpected offline notice: %+v", offline)
	}
}
