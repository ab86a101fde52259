package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type InitiateRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Conversations(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	conversations, err := h.chat.Conversations(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": conversations})
}

func (h *ChatHandler) Initiate(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req InitiateRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	conversation, err := h.chat.Initiate(ctx.Request.Context(), actor, req.UserID)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": conversation})
}

func (h *ChatHandler) Messages(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	messages, err := h.chat.Messages(ctx.Request.Context(), actor, ctx.Param("conversationId"))
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(messages), "data": messages})
}

func (h *ChatHandler) Send(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req SendMessageRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	msg, err := h.chat.Send(ctx.Request.Context(), actor, req.ReceiverID, req.Content)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": msg})
}
