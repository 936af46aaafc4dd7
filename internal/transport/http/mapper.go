package http

import (
	"context"
	"encoding/json"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
)

// dispatch routes one inbound frame to the hub. Frames that fail to decode or
// carry an unknown type are dropped and logged server-side; the protocol never
// answers malformed events.
func (h *WSHandler) dispatch(ctx context.Context, client *core.Client, inbound proto.Inbound) {
	switch inbound.Type {
	case proto.InboundTypeIdentityInit:
		var data proto.IdentityInitData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			h.dropFrame(client, inbound.Type, err)
			return
		}
		h.hub.BindIdentity(client, data.UserID, data.Username)
	case proto.InboundTypeRoomJoin:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			h.dropFrame(client, inbound.Type, err)
			return
		}
		h.hub.Join(ctx, client, data.RoomID)
	case proto.InboundTypeRoomLeave:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			h.dropFrame(client, inbound.Type, err)
			return
		}
		h.hub.Leave(client, data.RoomID)
	case proto.InboundTypeTypingStart, proto.InboundTypeTypingStop:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			h.dropFrame(client, inbound.Type, err)
			return
		}
		h.hub.SetTyping(client, data.RoomID, inbound.Type == proto.InboundTypeTypingStart)
	case proto.InboundTypeMessageSend:
		var data proto.MessageSendData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			h.dropFrame(client, inbound.Type, err)
			return
		}
		h.hub.SendMessage(ctx, client, data.RoomID, data.Text)
	default:
		h.log.Debug().Str("client_id", client.ID).Str("type", inbound.Type).Msg("unknown inbound type dropped")
	}
}

func (h *WSHandler) dropFrame(client *core.Client, frameType string, err error) {
	h.log.Debug().Err(err).Str("client_id", client.ID).Str("type", frameType).Msg("malformed inbound frame dropped")
}

// outboundFromEvent maps a hub event to its wire frame.
func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventIdentityAck:
		return proto.Outbound{
			Type: proto.OutboundTypeIdentityAck,
			Data: proto.IdentityAckData{OK: true},
		}
	case core.EventHistorySeed:
		return proto.Outbound{
			Type: proto.OutboundTypeHistorySeed,
			Data: proto.HistorySeedData{
				RoomID:   event.Room,
				Messages: messagePayloads(event.Messages),
			},
		}
	case core.EventPresenceSnapshot:
		users := make([]proto.PresenceUser, 0, len(event.Users))
		for _, entry := range event.Users {
			users = append(users, proto.PresenceUser{
				UserID:   entry.UserID,
				Username: entry.Username,
				Status:   entry.Status,
				Typing:   entry.Typing,
			})
		}
		return proto.Outbound{
			Type: proto.OutboundTypePresenceSnapshot,
			Data: proto.PresenceSnapshotData{RoomID: event.Room, Users: users},
		}
	case core.EventPresenceOnline, core.EventPresenceOffline:
		outboundType := proto.OutboundTypePresenceOnline
		if event.Kind == core.EventPresenceOffline {
			outboundType = proto.OutboundTypePresenceOffline
		}
		return proto.Outbound{
			Type: outboundType,
			Data: proto.PresenceChangeData{
				UserID:   event.UserID,
				Username: event.Username,
				RoomID:   event.Room,
			},
		}
	case core.EventTyping:
		outboundType := proto.OutboundTypeTypingStop
		if event.Typing {
			outboundType = proto.OutboundTypeTypingStart
		}
		return proto.Outbound{
			Type: outboundType,
			Data: proto.TypingData{
				RoomID:   event.Room,
				UserID:   event.UserID,
				Username: event.Username,
			},
		}
	case core.EventMessageNew:
		return proto.Outbound{
			Type: proto.OutboundTypeMessageNew,
			Data: messagePayload(event.Message),
		}
	default:
		return proto.Outbound{}
	}
}

func messagePayload(msg core.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:        msg.ID,
		RoomID:    msg.Room,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func messagePayloads(msgs []core.Message) []proto.MessagePayload {
	payloads := make([]proto.MessagePayload, 0, len(msgs))
	for _, msg := range msgs {
		payloads = append(payloads, messagePayload(msg))
	}
	return payloads
}
