package handler

import (
	"net/http"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const selectedDateKey = "selected_date"

type dayRequest struct {
	Date  string `json:"date"`
	Shift int    `json:"shift"`
}

func (a *API) selectedDate(c *gin.Context) string {
	session := sessions.Default(c)
	if raw, ok := session.Get(selectedDateKey).(string); ok {
		if date, err := ledger.NormalizeDate(raw); err == nil {
			return date
		}
	}
	return ledger.Today(a.now())
}

// GetSelectedDay 返回当前会话选中的日期，未选择时为今天
func (a *API) GetSelectedDay(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"date": a.selectedDate(c)})
}

// SetSelectedDay 设置选中日期；date 为空时以当前日期为基准按 shift 前后移动
func (a *API) SetSelectedDay(c *gin.Context) {
	var req dayRequest
	if !bindJSON(c, &req, "Invalid day payload") {
		return
	}

	base := req.Date
	if base == "" {
		base = a.selectedDate(c)
	}
	date, err := ledger.ShiftDate(base, req.Shift)
	if err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	session := sessions.Default(c)
	session.Set(selectedDateKey, date)
	if err := session.Save(); err != nil {
		respondInternal(c, err, "Failed to save selected day")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date})
}
