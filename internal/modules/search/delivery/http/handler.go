package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	searchDto "anoa.com/qaforum/internal/modules/search/dto"
	search "anoa.com/qaforum/internal/modules/search/service"
	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/response"
)

type SearchHandler struct {
	indexer search.Indexer
	logger  *zap.Logger
}

func NewSearchHandler(indexer search.Indexer, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{indexer: indexer, logger: logger}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var query searchDto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.indexer.Search(c.Request.Context(), query.Q, query.Limit)
	if err != nil {
		response.ResponseError(c, h.logger, apperror.New(http.StatusBadGateway, "search unavailable", err))
		return
	}

	c.JSON(http.StatusOK, result)
}
