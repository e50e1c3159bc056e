package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contentDto "anoa.com/qaforum/internal/modules/content/dto"
	content "anoa.com/qaforum/internal/modules/content/service"
	"anoa.com/qaforum/pkg/response"
)

type ContentHandler struct {
	service content.Service
	logger  *zap.Logger
}

func NewContentHandler(service content.Service, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{service: service, logger: logger}
}

func (h *ContentHandler) CreatePost(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req contentDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), caller, req)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *ContentHandler) CreateQuestion(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req contentDto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	question, err := h.service.CreateQuestion(c.Request.Context(), caller, req)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *ContentHandler) AddComment(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req contentDto.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), caller, c.Param("slug"), req)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *ContentHandler) AddAnswer(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req contentDto.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	answer, err := h.service.AddAnswer(c.Request.Context(), caller, c.Param("slug"), req)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) GetQuestion(c *gin.Context) {
	question, err := h.service.GetQuestion(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *ContentHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}
