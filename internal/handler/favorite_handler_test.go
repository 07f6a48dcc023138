package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
)

func TestFavoritesListIncludesPresets(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodGet, "/api/favorites", nil)
	api.ListFavorites(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	items := decodeBody[[]map[string]any](t, w)
	if len(items) != len(api.presets) {
		t.Fatalf("expected %d presets, got %d", len(api.presets), len(items))
	}
	for _, item := range items {
		if item["preset"] != true {
			t.Fatalf("expected preset flag on %v", item)
		}
	}
}

func TestCreateFavoriteIsCaseInsensitiveNoop(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodPost, "/api/favorites", map[string]any{"name": "Overnight Oats", "calories": 350, "protein": 20})
	api.CreateFavorite(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[map[string]any](t, w)

	c, w = newJSONContext(t, http.MethodPost, "/api/favorites", map[string]any{"name": "overnight OATS", "calories": 999})
	api.CreateFavorite(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for duplicate, got %d", w.Code)
	}
	dup := decodeBody[map[string]any](t, w)
	if dup["id"] != created["id"] || dup["created"] != false || dup["calories"].(float64) != 350 {
		t.Fatalf("expected existing favorite back, got %v", dup)
	}

	c, w = newJSONContext(t, http.MethodPost, "/api/favorites", map[string]any{"name": "protein bar", "calories": 1})
	api.CreateFavorite(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for preset duplicate, got %d", w.Code)
	}
	if preset := decodeBody[map[string]any](t, w); preset["preset"] != true {
		t.Fatalf("expected preset back, got %v", preset)
	}
}

func TestDeleteFavorite(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodPost, "/api/favorites", map[string]any{"name": "Tuna", "calories": 120})
	api.CreateFavorite(c)
	id := strconv.Itoa(int(decodeBody[map[string]any](t, w)["id"].(float64)))

	c, w = newJSONContext(t, http.MethodDelete, "/api/favorites/"+id, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: id}}
	api.DeleteFavorite(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	c, w = newJSONContext(t, http.MethodDelete, "/api/favorites/"+id, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: id}}
	api.DeleteFavorite(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

type stubSearcher struct {
	results []service.FoodSearchResult
	err     error
}

func (s stubSearcher) Search(ctx context.Context, query string) ([]service.FoodSearchResult, error) {
	return s.results, s.err
}

func TestSearchFoods(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodGet, "/api/search", nil)
	api.SearchFoods(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without q, got %d", w.Code)
	}

	api.search = stubSearcher{results: []service.FoodSearchResult{{FdcID: 1, Name: "Apple", Calories: 52}}}
	c, w = newJSONContext(t, http.MethodGet, "/api/search?q=apple", nil)
	api.SearchFoods(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	results := decodeBody[[]map[string]any](t, w)
	if len(results) != 1 || results[0]["name"] != "Apple" {
		t.Fatalf("unexpected results: %v", results)
	}

	api.search = stubSearcher{err: errors.Join(service.ErrUSDAUnavailable, errors.New("status 500"))}
	c, w = newJSONContext(t, http.MethodGet, "/api/search?q=apple", nil)
	api.SearchFoods(c)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}
