package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

// Minimal terminal client for poking at a running relay. The real UI is a
// browser client; this exists for local smoke testing.
func main() {
	if err := run(); err != nil {
		log.Printf("relay_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	userID := flag.String("user", "cli-user", "userId to declare")
	name := flag.String("name", "", "username to declare (defaults to userId)")
	room := flag.String("room", "general", "room to join")
	flag.Parse()

	if *name == "" {
		*name = *userID
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(frameType string, data any) {
		payload, err := json.Marshal(data)
		if err != nil {
			log.Printf("marshal %s: %v", frameType, err)
			return
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.InboundTypeIdentityInit, proto.IdentityInitData{UserID: *userID, Username: *name})
	send(proto.InboundTypeRoomJoin, proto.RoomData{RoomID: *room})

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *name, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		send(proto.InboundTypeMessageSend, proto.MessageSendData{RoomID: *room, Text: text})
	}

	stop()
	cancel()
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return
		}

		switch outbound.Type {
		case proto.OutboundTypeMessageNew:
			var msg proto.MessagePayload
			if json.Unmarshal(outbound.Data, &msg) == nil {
				fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format("15:04:05"), msg.Username, msg.Text)
			}
		case proto.OutboundTypeHistorySeed:
			var seed proto.HistorySeedData
			if json.Unmarshal(outbound.Data, &seed) == nil {
				for _, msg := range seed.Messages {
					fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format("15:04:05"), msg.Username, msg.Text)
				}
			}
		case proto.OutboundTypePresenceOnline, proto.OutboundTypePresenceOffline:
			var change proto.PresenceChangeData
			if json.Unmarshal(outbound.Data, &change) == nil {
				state := "joined"
				if outbound.Type == proto.OutboundTypePresenceOffline {
					state = "left"
				}
				fmt.Printf("* %s %s %s\n", change.Username, state, change.RoomID)
			}
		}
	}
}
