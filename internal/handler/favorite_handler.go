package handler

import (
	"errors"
	"net/http"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
)

type favoriteRequest struct {
	Name     string    `json:"name"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	MealType string    `json:"meal_type"`
	USDAID   *sourceID `json:"usda_id"`
}

func (r favoriteRequest) toFavorite() ledger.FavoriteFood {
	fav := ledger.FavoriteFood{
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		MealType: ledger.MealType(r.MealType),
	}
	if r.USDAID != nil {
		fav.SourceID = string(*r.USDAID)
	}
	return fav
}

func favoriteToPayload(fav ledger.FavoriteFood) gin.H {
	return gin.H{
		"id":        fav.ID,
		"name":      fav.Name,
		"calories":  fav.Calories,
		"protein":   fav.Protein,
		"carbs":     fav.Carbs,
		"fat":       fav.Fat,
		"quantity":  fav.Quantity,
		"unit":      fav.Unit,
		"meal_type": fav.MealType,
		"usda_id":   fav.SourceID,
		"preset":    fav.Preset,
	}
}

// loadFavorites 基于数据库构造收藏注册表，内置预设一并列出
func (a *API) loadFavorites(c *gin.Context) (*ledger.Favorites, error) {
	favs := ledger.NewFavorites(a.sync, a.presets)
	if err := favs.Load(c.Request.Context()); err != nil {
		return nil, err
	}
	return favs, nil
}

// ListFavorites 返回用户收藏与内置预设
func (a *API) ListFavorites(c *gin.Context) {
	favs, err := a.loadFavorites(c)
	if err != nil {
		respondInternal(c, err, "Failed to list favorites")
		return
	}

	list := favs.List()
	items := make([]gin.H, 0, len(list))
	for _, fav := range list {
		items = append(items, favoriteToPayload(fav))
	}
	c.JSON(http.StatusOK, items)
}

// CreateFavorite 添加收藏；同名（忽略大小写）已存在时原样返回已有收藏
func (a *API) CreateFavorite(c *gin.Context) {
	var req favoriteRequest
	if !bindJSON(c, &req, "Invalid favorite payload") {
		return
	}

	favs, err := a.loadFavorites(c)
	if err != nil {
		respondInternal(c, err, "Failed to load favorites")
		return
	}

	fav, added, err := favs.Add(c.Request.Context(), req.toFavorite())
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrValidation):
			respondError(c, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, ledger.ErrBusy):
			respondError(c, http.StatusConflict, "Favorite is being saved")
		default:
			respondInternal(c, err, "Failed to save favorite")
		}
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	payload := favoriteToPayload(fav)
	payload["created"] = added
	c.JSON(status, payload)
}

// DeleteFavorite 删除用户收藏，内置预设不可删除
func (a *API) DeleteFavorite(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.favorites.WithContext(c.Request.Context()).Delete(id); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			respondError(c, http.StatusNotFound, "Favorite not found")
			return
		}
		respondInternal(c, err, "Failed to delete favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite deleted successfully"})
}
