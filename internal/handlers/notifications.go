package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/utils"
)

type UnregisterTokenRequest struct {
	FCMToken string `json:"fcmToken" binding:"required"`
}

type MarkReadRequest struct {
	IDs []uint `json:"notificationIds"`
}

type NotificationHandler struct {
	inbox *services.InboxService
}

func NewNotificationHandler(inbox *services.InboxService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func (h *NotificationHandler) RegisterToken(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.DeviceTokenInput
	if !utils.BindJSON(ctx, &req) {
		return
	}

	token, err := h.inbox.RegisterToken(ctx.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Token registered successfully", "data": token})
}

func (h *NotificationHandler) UnregisterToken(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req UnregisterTokenRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	if err := h.inbox.UnregisterToken(ctx.Request.Context(), actor, req.FCMToken); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Token unregistered successfully"})
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	inbox, err := h.inbox.List(ctx.Request.Context(), actor, ctx.Request.URL.Query())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	body := utils.PageResponse(inbox.Page)
	body["unreadCount"] = inbox.UnreadCount
	ctx.JSON(http.StatusOK, body)
}

func (h *NotificationHandler) UnreadCount(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	count, err := h.inbox.UnreadCount(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "unreadCount": count})
}

func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	n, err := h.inbox.MarkRead(ctx.Request.Context(), actor, id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": n})
}

func (h *NotificationHandler) MarkManyRead(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req MarkReadRequest
	if !utils.BindJSON(ctx, &req) {
		return
	}

	modified, err := h.inbox.MarkManyRead(ctx.Request.Context(), actor, req.IDs)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "modifiedCount": modified})
}

func (h *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	modified, err := h.inbox.MarkAllRead(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "modifiedCount": modified})
}

func (h *NotificationHandler) Delete(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := utils.IDParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.inbox.Delete(ctx.Request.Context(), actor, id); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}

func (h *NotificationHandler) Clear(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	deleted, err := h.inbox.Clear(ctx.Request.Context(), actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": deleted})
}
