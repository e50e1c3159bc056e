package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	voteDto "anoa.com/qaforum/internal/modules/vote/dto"
	vote "anoa.com/qaforum/internal/modules/vote/service"
	"anoa.com/qaforum/pkg/response"
)

type VoteHandler struct {
	service vote.VoteService
	logger  *zap.Logger
}

func NewVoteHandler(service vote.VoteService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{service: service, logger: logger}
}

func (h *VoteHandler) CastVote(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var req voteDto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.CastVote(c.Request.Context(), caller, req); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *VoteHandler) ReadMyVotes(c *gin.Context) {
	caller := response.GetIdentity(c)
	if !caller.Authenticated() {
		response.Unauthorized(c)
		return
	}

	var query voteDto.MyVotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	votes, err := h.service.ReadMyVotes(c.Request.Context(), caller, query)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": votes})
}

func (h *VoteHandler) GetTally(c *gin.Context) {
	var req voteDto.TallyRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		response.BindError(c, err)
		return
	}

	tally, err := h.service.GetTally(c.Request.Context(), req.TargetKind, targetID)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tally)
}
