package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(db.Options{Driver: db.DriverMemory, Name: t.Name(), Silent: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	return SetupRouter(gdb, Options{SessionSecret: "test-secret"}), gdb
}

func TestSetupRouterUnknownRoute(t *testing.T) {
	r, _ := setupRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "Route not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSetupRouterPreflight(t *testing.T) {
	r, _ := setupRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/foods", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("expected allow methods header")
	}
}

func TestSetupRouterRecoversFromPanic(t *testing.T) {
	r, _ := setupRouter(t)
	r.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "Something went wrong!" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSetupRouterFoodLifecycle(t *testing.T) {
	r, gdb := setupRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rr.Code)
	}

	if err := gdb.Create(&db.Food{Name: "Rice", Calories: 200, Quantity: 1, Unit: "cup", Date: "2024-01-02", MealType: "lunch"}).Error; err != nil {
		t.Fatalf("failed to seed food: %v", err)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/summary/2024-01-02", nil))
	var summary map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary["entries_count"].(float64) != 1 || summary["total_calories"].(float64) != 200 {
		t.Fatalf("unexpected summary %v", summary)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/days/2024-01-02", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected reset 200, got %d", rr.Code)
	}

	var count int64
	gdb.Model(&db.Food{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected day to be cleared, got %d rows", count)
	}
}
