package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite 使用本地文件数据库
	DriverSQLite = "sqlite"
	// DriverMemory 使用进程内的 sqlite 内存库，主要用于测试与演示
	DriverMemory = "memory"
	// DriverPostgres 连接远端 PostgreSQL
	DriverPostgres = "postgres"

	defaultDatabasePath = "burnit.db"
)

// Options 描述打开数据库所需的参数。
type Options struct {
	Driver string
	// Path 是 sqlite 文件路径，为空时回退到 burnit.db
	Path string
	// DSN 是 postgres 连接串
	DSN string
	// Name 区分不同的内存库，同名内存库在进程内共享
	Name   string
	Silent bool
}

// Open 按驱动打开数据库连接并执行自动迁移。
func Open(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if opts.Silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var (
		gdb *gorm.DB
		err error
	)

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverSQLite:
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = defaultDatabasePath
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		gdb, err = gorm.Open(sqlite.Open(path), cfg)
	case DriverMemory:
		gdb, err = gorm.Open(sqlite.Open(memoryDSN(opts.Name)), cfg)
		if err == nil {
			// 共享缓存的内存库只能安全地使用单个连接
			if sqlDB, dbErr := gdb.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	case DriverPostgres:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			return nil, errors.New("postgres driver requires a DSN")
		}
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		Close(gdb)
		return nil, err
	}
	return gdb, nil
}

// Migrate 自动迁移模式，为核心模型创建表
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&Food{}, &DailyGoal{}, &FavoriteFood{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close 关闭底层连接池。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func memoryDSN(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if name == "" {
		name = "burnit"
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
