package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Chadbowen248/burnit/internal/config"
	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
)

// 测试数据生成器：为最近若干天写入示例饮食记录、目标与收藏
func main() {
	days := flag.Int("days", 7, "number of days to seed, ending today")
	flag.Parse()

	// 初始化数据库
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("配置无效:", err)
	}
	gdb, err := db.Open(db.Options{Driver: cfg.DBDriver, Path: cfg.DatabasePath, DSN: cfg.DatabaseDSN, Silent: true})
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close(gdb)

	fmt.Println("开始生成测试数据...")

	stats, err := seedDemoData(context.Background(), service.NewLocalSync(gdb), ledger.Today(time.Now()), *days)
	if err != nil {
		log.Fatal("生成测试数据失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("食物记录: %d 条（跳过已有记录的 %d 天）\n", stats.Foods, stats.SkippedDays)
	fmt.Printf("每日目标: %d 天\n", stats.Goals)
	fmt.Printf("收藏: %d 个\n", stats.Favorites)
}

type seedStats struct {
	Foods       int
	Goals       int
	Favorites   int
	SkippedDays int
}

// 每天按轮换方式取一份早餐、午餐、晚餐和加餐
var demoMeals = map[ledger.MealType][]ledger.FoodEntry{
	ledger.MealBreakfast: {
		{Name: "Overnight Oats", Calories: 350, Protein: 18, Carbs: 52, Fat: 9, Quantity: 1, Unit: "jar"},
		{Name: "Scrambled Eggs", Calories: 210, Protein: 14, Carbs: 2, Fat: 16, Quantity: 2, Unit: "egg"},
		{Name: "Greek Yogurt", Calories: 130, Protein: 17, Carbs: 6, Fat: 4, Quantity: 170, Unit: "g"},
	},
	ledger.MealLunch: {
		{Name: "Chicken Rice Bowl", Calories: 620, Protein: 45, Carbs: 70, Fat: 15, Quantity: 1, Unit: "bowl"},
		{Name: "Turkey Sandwich", Calories: 480, Protein: 32, Carbs: 48, Fat: 16, Quantity: 1, Unit: "sandwich"},
	},
	ledger.MealDinner: {
		{Name: "Salmon and Potatoes", Calories: 710, Protein: 42, Carbs: 55, Fat: 32, Quantity: 1, Unit: "plate"},
		{Name: "Beef Stir Fry", Calories: 650, Protein: 40, Carbs: 60, Fat: 24, Quantity: 1, Unit: "plate"},
		{Name: "Lentil Curry", Calories: 540, Protein: 24, Carbs: 78, Fat: 14, Quantity: 1, Unit: "bowl"},
	},
	ledger.MealSnack: {
		{Name: "Apple", Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3, Quantity: 1, Unit: "medium"},
		{Name: "Almonds", Calories: 165, Protein: 6, Carbs: 6, Fat: 14, Quantity: 28, Unit: "g"},
	},
}

var demoMealOrder = []ledger.MealType{ledger.MealBreakfast, ledger.MealLunch, ledger.MealDinner, ledger.MealSnack}

var demoFavorites = []ledger.FavoriteFood{
	{Name: "Overnight Oats", Calories: 350, Protein: 18, Carbs: 52, Fat: 9, Quantity: 1, Unit: "jar", MealType: ledger.MealBreakfast},
	{Name: "Chicken Rice Bowl", Calories: 620, Protein: 45, Carbs: 70, Fat: 15, Quantity: 1, Unit: "bowl", MealType: ledger.MealLunch},
	{Name: "Almonds", Calories: 165, Protein: 6, Carbs: 6, Fat: 14, Quantity: 28, Unit: "g", MealType: ledger.MealSnack},
}

// seedDemoData 通过账本写入数据；已有记录的日期不会重复写入
func seedDemoData(ctx context.Context, s ledger.Syncer, end string, days int) (seedStats, error) {
	var stats seedStats
	if days <= 0 {
		return stats, nil
	}

	l := ledger.New(s)
	goals := ledger.NewGoalTracker(s, nil)

	for offset := days - 1; offset >= 0; offset-- {
		date, err := ledger.ShiftDate(end, -offset)
		if err != nil {
			return stats, err
		}

		// 训练日目标更高
		goal := ledger.Goal{Date: date, Calories: 2000, Protein: 140, Carbs: 220, Fat: 65}
		if offset%2 == 0 {
			goal.Calories, goal.Carbs = 2300, 280
		}
		if _, err := goals.Set(ctx, goal); err != nil {
			return stats, fmt.Errorf("set goal %s: %w", date, err)
		}
		stats.Goals++

		if err := l.Load(ctx, date); err != nil {
			return stats, err
		}
		if len(l.Entries(date)) > 0 {
			stats.SkippedDays++
			continue
		}

		for _, meal := range demoMealOrder {
			options := demoMeals[meal]
			entry := options[offset%len(options)]
			entry.MealType = meal
			if _, err := l.Add(ctx, date, entry); err != nil {
				return stats, fmt.Errorf("add %s on %s: %w", entry.Name, date, err)
			}
			stats.Foods++
		}
	}

	favs := ledger.NewFavorites(s, ledger.DefaultPresets())
	if err := favs.Load(ctx); err != nil {
		return stats, err
	}
	for _, fav := range demoFavorites {
		_, added, err := favs.Add(ctx, fav)
		if err != nil {
			return stats, fmt.Errorf("add favorite %s: %w", fav.Name, err)
		}
		if added {
			stats.Favorites++
		}
	}

	return stats, nil
}
