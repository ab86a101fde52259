package handlers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/auth"
	"github.com/kriti-labs/jobportal/internal/middleware"
	"github.com/kriti-labs/jobportal/internal/realtime"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/kriti-labs/jobportal/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Inbound notification events.
const (
	EventNotificationRead    = "notification:read"
	EventNotificationReadAll = "notification:read_all"
)

type joinRoomEvent struct {
	ConversationID string `json:"conversationId"`
}

type sendMessageEvent struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}

type notificationReadEvent struct {
	ID uint `json:"id"`
}

// SocketHandler authenticates WebSocket upgrades and serves the chat and
// notification events sent over them.
type SocketHandler struct {
	hub    *realtime.Hub
	issuer *auth.Issuer
	users  middleware.UserLoader
	chat   *services.ChatService
	inbox  *services.InboxService
}

func NewSocketHandler(hub *realtime.Hub, issuer *auth.Issuer, users middleware.UserLoader, chat *services.ChatService, inbox *services.InboxService) *SocketHandler {
	h := &SocketHandler{hub: hub, issuer: issuer, users: users, chat: chat, inbox: inbox}

	hub.Handle(realtime.EventJoinRoom, h.joinRoom)
	hub.Handle(realtime.EventLeaveRoom, h.leaveRoom)
	hub.Handle(realtime.EventSendMessage, h.sendMessage)
	hub.Handle(EventNotificationRead, h.notificationRead)
	hub.Handle(EventNotificationReadAll, h.notificationReadAll)

	return h
}

// WebSocket accepts the token from the Authorization header, the token query
// parameter or the auth cookie.
func (h *SocketHandler) WebSocket(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		token = middleware.BearerToken(ctx.Request)
	}

	user, err := middleware.Identify(ctx.Request.Context(), h.issuer, h.users, token)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := h.hub.Serve(ctx.Writer, ctx.Request, user.ID, user.Role); err != nil {
		log.WithField("user_id", user.ID).Printf("WebSocket upgrade failed: %v", err)
	}
}

func actorOf(c *realtime.Client) types.AuthenticatedUser {
	return types.AuthenticatedUser{ID: c.UserID, Role: c.Role}
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return apperr.NewValidation("Event data is required")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.NewValidation("Malformed event data")
	}
	return nil
}

func (h *SocketHandler) joinRoom(ctx context.Context, c *realtime.Client, data json.RawMessage) error {
	var ev joinRoomEvent
	if err := decode(data, &ev); err != nil {
		return err
	}

	if err := services.RequireParticipant(ev.ConversationID, c.UserID); err != nil {
		return err
	}

	h.hub.Join(c, realtime.ConversationRoom(ev.ConversationID))
	return h.chat.MarkRead(ctx, actorOf(c), ev.ConversationID)
}

func (h *SocketHandler) leaveRoom(_ context.Context, c *realtime.Client, data json.RawMessage) error {
	var ev joinRoomEvent
	if err := decode(data, &ev); err != nil {
		return err
	}

	h.hub.Leave(c, realtime.ConversationRoom(ev.ConversationID))
	return nil
}

func (h *SocketHandler) sendMessage(ctx context.Context, c *realtime.Client, data json.RawMessage) error {
	var ev sendMessageEvent
	if err := decode(data, &ev); err != nil {
		return err
	}

	_, err := h.chat.Send(ctx, actorOf(c), ev.ReceiverID, ev.Content)
	return err
}

func (h *SocketHandler) notificationRead(ctx context.Context, c *realtime.Client, data json.RawMessage) error {
	var ev notificationReadEvent
	if err := decode(data, &ev); err != nil {
		return err
	}
	if ev.ID == 0 {
		return apperr.NewValidation("Notification ID is required")
	}

	_, err := h.inbox.MarkRead(ctx, actorOf(c), ev.ID)
	return err
}

func (h *SocketHandler) notificationReadAll(ctx context.Context, c *realtime.Client, _ json.RawMessage) error {
	_, err := h.inbox.MarkAllRead(ctx, actorOf(c))
	return err
}
