package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Chadbowen248/burnit/internal/client"
	"github.com/Chadbowen248/burnit/internal/config"
	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"go.uber.org/zap"
)

type searcher interface {
	Search(ctx context.Context, query string) ([]service.FoodSearchResult, error)
}

// backend 是命令行使用的存储端，远程服务或本地数据库二选一
type backend struct {
	sync   ledger.Syncer
	search searcher
	report func(ctx context.Context, date string) (string, error)
	close  func() error
}

type app struct {
	server string
	dbPath string
	date   string

	out io.Writer
	log *zap.Logger
	now func() time.Time

	backend *backend
	ledger  *ledger.Ledger
	goals   *ledger.GoalTracker
	favs    *ledger.Favorites
}

func newApp(out io.Writer, log *zap.Logger) *app {
	if log == nil {
		log = zap.NewNop()
	}
	return &app{out: out, log: log, now: time.Now}
}

// connect 按参数选择同步适配器：--server 走 REST，否则直接打开本地数据库
func (a *app) connect() error {
	if a.backend == nil {
		b, err := a.openBackend()
		if err != nil {
			return err
		}
		a.backend = b
	}

	a.ledger = ledger.New(a.backend.sync, ledger.WithLogger(a.log))
	a.goals = ledger.NewGoalTracker(a.backend.sync, a.log)
	a.favs = ledger.NewFavorites(a.backend.sync, ledger.DefaultPresets())
	return nil
}

func (a *app) openBackend() (*backend, error) {
	if server := strings.TrimSpace(a.server); server != "" {
		c := client.New(server, a.log.Named("client"))
		return &backend{sync: c, search: c, report: c.Report}, nil
	}

	cfg := config.Load()
	path := a.dbPath
	if path == "" {
		path = cfg.DatabasePath
	}
	gdb, err := db.Open(db.Options{Driver: db.DriverSQLite, Path: path, Silent: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	foods := service.NewFoodService(gdb)
	reports := service.NewReportService(foods, service.NewGoalService(gdb))
	return &backend{
		sync:   service.NewLocalSync(gdb),
		search: service.NewUSDAClient(cfg.USDAAPIKey, cfg.USDABaseURL, a.log.Named("usda")),
		report: func(ctx context.Context, date string) (string, error) {
			report, err := reports.WithContext(ctx).Build(date)
			if err != nil {
				return "", err
			}
			return reports.Markdown(report), nil
		},
		close: func() error { return db.Close(gdb) },
	}, nil
}

func (a *app) shutdown() error {
	if a.backend == nil || a.backend.close == nil {
		return nil
	}
	err := a.backend.close()
	a.backend = nil
	return err
}

// selectedDate 返回 --date 指定的日期，未指定时为今天
func (a *app) selectedDate() (string, error) {
	if strings.TrimSpace(a.date) == "" {
		return ledger.Today(a.now()), nil
	}
	return ledger.NormalizeDate(a.date)
}
