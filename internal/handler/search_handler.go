package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchFoods 代理外部食物数据库检索
func (a *API) SearchFoods(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	if a.search == nil {
		respondError(c, http.StatusServiceUnavailable, "Food search is not configured")
		return
	}

	results, err := a.search.Search(c.Request.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSearchQueryEmpty):
			respondError(c, http.StatusBadRequest, "Query parameter q is required")
		case errors.Is(err, service.ErrUSDAUnavailable):
			a.log.Warn("food search unavailable", zap.String("query", query), zap.Error(err))
			respondError(c, http.StatusBadGateway, "Food search is unavailable")
		default:
			respondInternal(c, err, "Food search failed")
		}
		return
	}

	if results == nil {
		results = []service.FoodSearchResult{}
	}
	c.JSON(http.StatusOK, results)
}
