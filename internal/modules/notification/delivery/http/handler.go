package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	notifDto "anoa.com/qaforum/internal/modules/notification/dto"
	notification "anoa.com/qaforum/internal/modules/notification/service"
	"anoa.com/qaforum/pkg/response"
)

type NotificationHandler struct {
	service notification.NotificationService
	logger  *zap.Logger
}

func NewNotificationHandler(service notification.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: logger}
}

func (h *NotificationHandler) Emit(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req notifDto.EmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	relatedID, err := uuid.Parse(req.RelatedID)
	if err != nil {
		response.BindError(c, err)
		return
	}

	message, err := h.service.Notify(c.Request.Context(), caller, req.EventKind, relatedID)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, notifDto.EmitResponse{Message: message})
}

func (h *NotificationHandler) List(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	notifications, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	if err := h.service.Clear(c.Request.Context(), caller); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
