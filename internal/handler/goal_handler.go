package handler

import (
	"errors"
	"net/http"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
)

type goalRequest struct {
	Date     string   `json:"date"`
	Calories *float64 `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
}

func goalToPayload(goal ledger.Goal) gin.H {
	return gin.H{
		"date":     goal.Date,
		"calories": goal.Calories,
		"protein":  goal.Protein,
		"carbs":    goal.Carbs,
		"fat":      goal.Fat,
	}
}

// ListGoals 按日期倒序返回已设置的目标
func (a *API) ListGoals(c *gin.Context) {
	goals, err := a.goals.WithContext(c.Request.Context()).List()
	if err != nil {
		respondInternal(c, err, "Failed to list goals")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalToPayload(goal))
	}
	c.JSON(http.StatusOK, items)
}

// GetGoal 返回某天的目标，未设置时返回默认目标
func (a *API) GetGoal(c *gin.Context) {
	goal, isDefault, err := a.goals.WithContext(c.Request.Context()).Get(c.Param("date"))
	if err != nil {
		handleGoalError(c, err)
		return
	}

	payload := goalToPayload(goal)
	payload["is_default"] = isDefault
	c.JSON(http.StatusOK, payload)
}

// SetGoal 覆盖写入某天的目标
func (a *API) SetGoal(c *gin.Context) {
	var req goalRequest
	if !bindJSON(c, &req, "Invalid goal payload") {
		return
	}
	if req.Calories == nil || req.Date == "" {
		respondError(c, http.StatusBadRequest, "Calories and date are required")
		return
	}

	goal, err := a.goals.WithContext(c.Request.Context()).Set(ledger.Goal{
		Date:     req.Date,
		Calories: *req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		handleGoalError(c, err)
		return
	}

	payload := goalToPayload(goal)
	payload["message"] = "Goals updated successfully"
	c.JSON(http.StatusCreated, payload)
}

func handleGoalError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrGoalInvalid) {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	respondInternal(c, err, "Failed to process goal")
}
