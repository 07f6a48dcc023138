package handler

import (
	"context"
	"time"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FoodSearcher 检索外部食物数据库
type FoodSearcher interface {
	Search(ctx context.Context, query string) ([]service.FoodSearchResult, error)
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	foods     *service.FoodService
	goals     *service.GoalService
	favorites *service.FavoriteService
	backups   *service.BackupService
	reports   *service.ReportService
	sync      *service.LocalSync
	search    FoodSearcher
	presets   []ledger.FavoriteFood
	log       *zap.Logger
	now       func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, search FoodSearcher, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	foods := service.NewFoodService(db)
	goals := service.NewGoalService(db)

	return &API{
		db:        db,
		foods:     foods,
		goals:     goals,
		favorites: service.NewFavoriteService(db),
		backups:   service.NewBackupService(db),
		reports:   service.NewReportService(foods, goals),
		sync:      service.NewLocalSync(db),
		search:    search,
		presets:   ledger.DefaultPresets(),
		log:       log,
		now:       time.Now,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
