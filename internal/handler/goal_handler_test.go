package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetGoalFallsBackToDefault(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodGet, "/api/goals/2024-01-01", nil)
	c.Params = gin.Params{gin.Param{Key: "date", Value: "2024-01-01"}}
	api.GetGoal(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["calories"].(float64) != 2000 || body["protein"].(float64) != 50 || body["carbs"].(float64) != 250 || body["fat"].(float64) != 65 {
		t.Fatalf("unexpected default goal: %v", body)
	}
	if body["is_default"] != true {
		t.Fatalf("expected is_default, got %v", body["is_default"])
	}
}

func TestSetGoalUpsertsAndValidates(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	for _, calories := range []float64{1800, 2100} {
		c, w := newJSONContext(t, http.MethodPost, "/api/goals", map[string]any{"date": "2024-01-01", "calories": calories, "protein": 150})
		api.SetGoal(c)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	c, w := newJSONContext(t, http.MethodGet, "/api/goals", nil)
	api.ListGoals(c)
	goals := decodeBody[[]map[string]any](t, w)
	if len(goals) != 1 || goals[0]["calories"].(float64) != 2100 {
		t.Fatalf("expected a single upserted goal, got %v", goals)
	}

	c, w = newJSONContext(t, http.MethodPost, "/api/goals", map[string]any{"date": "2024-01-01"})
	api.SetGoal(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without calories, got %d", w.Code)
	}

	c, w = newJSONContext(t, http.MethodPost, "/api/goals", map[string]any{"date": "2024-01-01", "calories": 0})
	api.SetGoal(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for zero calories, got %d", w.Code)
	}
}
