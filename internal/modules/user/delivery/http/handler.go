package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"anoa.com/qaforum/internal/modules/user/dto"
	user "anoa.com/qaforum/internal/modules/user/service"
	"anoa.com/qaforum/pkg/response"
)

type UserHandler struct {
	service user.UserService
	logger  *zap.Logger
}

func NewUserHandler(service user.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	me, err := h.service.GetMe(c.Request.Context(), caller)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

func (h *UserHandler) UpdateBio(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req dto.UpdateBioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	me, err := h.service.UpdateBio(c.Request.Context(), caller, req)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
