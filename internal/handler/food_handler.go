package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
)

// sourceID 兼容字符串与数字两种形式的外部编号（例如 USDA fdcId）
type sourceID string

func (s *sourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = sourceID(raw)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("usda_id must be a string or number")
	}
	*s = sourceID(number.String())
	return nil
}

// foodRequest 同时用于创建与部分更新，缺省字段为 nil
type foodRequest struct {
	Name       *string   `json:"name"`
	Calories   *float64  `json:"calories"`
	Protein    *float64  `json:"protein"`
	Carbs      *float64  `json:"carbs"`
	Fat        *float64  `json:"fat"`
	Quantity   *float64  `json:"quantity"`
	Unit       *string   `json:"unit"`
	Date       *string   `json:"date"`
	MealType   *string   `json:"meal_type"`
	IsFavorite *bool     `json:"is_favorite"`
	USDAID     *sourceID `json:"usda_id"`
}

func (r foodRequest) toPatch() ledger.EntryPatch {
	patch := ledger.EntryPatch{
		Name:       r.Name,
		Calories:   r.Calories,
		Protein:    r.Protein,
		Carbs:      r.Carbs,
		Fat:        r.Fat,
		Quantity:   r.Quantity,
		Unit:       r.Unit,
		Date:       r.Date,
		IsFavorite: r.IsFavorite,
	}
	if r.MealType != nil {
		meal := ledger.MealType(*r.MealType)
		patch.MealType = &meal
	}
	if r.USDAID != nil {
		id := string(*r.USDAID)
		patch.SourceID = &id
	}
	return patch
}

// toEntry 构造新条目，名称、热量与日期为必填
func (r foodRequest) toEntry() (ledger.FoodEntry, bool) {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" || r.Calories == nil || r.Date == nil {
		return ledger.FoodEntry{}, false
	}
	return r.toPatch().Apply(ledger.FoodEntry{}), true
}

func foodToPayload(food db.Food) gin.H {
	var usdaID interface{}
	if food.USDAID != "" {
		usdaID = food.USDAID
	}
	return gin.H{
		"id":          food.ID,
		"name":        food.Name,
		"calories":    food.Calories,
		"protein":     food.Protein,
		"carbs":       food.Carbs,
		"fat":         food.Fat,
		"quantity":    food.Quantity,
		"unit":        food.Unit,
		"date":        food.Date,
		"meal_type":   food.MealType,
		"is_favorite": food.IsFavorite,
		"usda_id":     usdaID,
		"created_at":  food.CreatedAt,
		"updated_at":  food.UpdatedAt,
	}
}

// ListFoods 返回条目列表，支持 date/meal_type/is_favorite 过滤
func (a *API) ListFoods(c *gin.Context) {
	isFavorite, err := parseBoolQuery(c, "is_favorite")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	foods, err := a.foods.WithContext(c.Request.Context()).List(service.FoodFilter{
		Date:       c.Query("date"),
		MealType:   c.Query("meal_type"),
		IsFavorite: isFavorite,
	})
	if err != nil {
		handleFoodError(c, err, "Failed to list foods")
		return
	}

	items := make([]gin.H, 0, len(foods))
	for _, food := range foods {
		items = append(items, foodToPayload(food))
	}
	c.JSON(http.StatusOK, items)
}

// GetFood 返回单个条目
func (a *API) GetFood(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	food, err := a.foods.WithContext(c.Request.Context()).Get(id)
	if err != nil {
		handleFoodError(c, err, "Failed to load food")
		return
	}
	c.JSON(http.StatusOK, foodToPayload(*food))
}

// CreateFood 新建条目
func (a *API) CreateFood(c *gin.Context) {
	var req foodRequest
	if !bindJSON(c, &req, "Invalid food payload") {
		return
	}

	entry, ok := req.toEntry()
	if !ok {
		respondError(c, http.StatusBadRequest, "Name, calories, and date are required")
		return
	}

	food, err := a.foods.WithContext(c.Request.Context()).Create(entry)
	if err != nil {
		handleFoodError(c, err, "Failed to create food")
		return
	}
	c.JSON(http.StatusCreated, foodToPayload(*food))
}

// UpdateFood 部分更新条目，未提供的字段保持不变
func (a *API) UpdateFood(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req foodRequest
	if !bindJSON(c, &req, "Invalid food payload") {
		return
	}

	food, err := a.foods.WithContext(c.Request.Context()).Update(id, req.toPatch())
	if err != nil {
		handleFoodError(c, err, "Failed to update food")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      food.ID,
		"message": "Food updated successfully",
		"food":    foodToPayload(*food),
	})
}

// DeleteFood 删除条目
func (a *API) DeleteFood(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.foods.WithContext(c.Request.Context()).Delete(id); err != nil {
		handleFoodError(c, err, "Failed to delete food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food deleted successfully"})
}

// ResetDay 删除某一天的全部条目
func (a *API) ResetDay(c *gin.Context) {
	date := c.Param("date")
	deleted, err := a.foods.WithContext(c.Request.Context()).DeleteDay(date)
	if err != nil {
		handleFoodError(c, err, "Failed to reset day")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    strings.TrimSpace(date),
		"deleted": deleted,
		"message": "Day reset successfully",
	})
}

// GetSummary 返回某一天的条目数与营养总和，没有记录时全部为 0
func (a *API) GetSummary(c *gin.Context) {
	summary, err := a.foods.WithContext(c.Request.Context()).Summary(c.Param("date"))
	if err != nil {
		handleFoodError(c, err, "Failed to load summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":           summary.Date,
		"entries_count":  summary.EntriesCount,
		"total_calories": summary.Totals.Calories,
		"total_protein":  summary.Totals.Protein,
		"total_carbs":    summary.Totals.Carbs,
		"total_fat":      summary.Totals.Fat,
	})
}

func handleFoodError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrFoodNotFound):
		respondError(c, http.StatusNotFound, "Food not found")
	case errors.Is(err, service.ErrFoodInvalid):
		respondError(c, http.StatusBadRequest, validationMessage(err))
	default:
		respondInternal(c, err, fallback)
	}
}

// validationMessage 去掉错误链中的哨兵前缀，只保留具体原因
func validationMessage(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 && idx+2 < len(msg) {
		return msg[idx+2:]
	}
	return msg
}
