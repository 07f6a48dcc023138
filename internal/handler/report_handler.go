package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetReport 返回某一天的报告，format=markdown（默认）或 html
func (a *API) GetReport(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "markdown")))
	if format != "markdown" && format != "html" {
		respondError(c, http.StatusBadRequest, "format must be markdown or html")
		return
	}

	report, err := a.reports.WithContext(c.Request.Context()).Build(c.Param("date"))
	if err != nil {
		handleFoodError(c, err, "Failed to build report")
		return
	}

	if format == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(a.reports.Markdown(report)))
		return
	}

	rendered, err := a.reports.HTML(report)
	if err != nil {
		respondInternal(c, err, "Failed to render report")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rendered))
}
