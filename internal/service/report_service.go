package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// DayReport 汇总某一天的条目、总量与目标对比
type DayReport struct {
	Date          string
	Entries       []ledger.FoodEntry
	Totals        ledger.Totals
	Goal          ledger.Goal
	GoalIsDefault bool
	Comparison    ledger.Comparison
}

// ReportService 生成每日报告的 Markdown 与 HTML 版本
type ReportService struct {
	foods    *FoodService
	goals    *GoalService
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewReportService 构造 ReportService
func NewReportService(foods *FoodService, goals *GoalService) *ReportService {
	return &ReportService{
		foods: foods,
		goals: goals,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// WithContext 返回绑定 ctx 的副本
func (s *ReportService) WithContext(ctx context.Context) *ReportService {
	clone := *s
	clone.foods = s.foods.WithContext(ctx)
	clone.goals = s.goals.WithContext(ctx)
	return &clone
}

// Build 读取某一天的数据并与目标比较
func (s *ReportService) Build(date string) (DayReport, error) {
	date, err := ledger.NormalizeDate(date)
	if err != nil {
		return DayReport{}, fmt.Errorf("%w: %w", ErrFoodInvalid, err)
	}

	foods, err := s.foods.List(FoodFilter{Date: date})
	if err != nil {
		return DayReport{}, err
	}
	entries := make([]ledger.FoodEntry, 0, len(foods))
	for _, food := range foods {
		entries = append(entries, FoodToEntry(food))
	}

	goal, isDefault, err := s.goals.Get(date)
	if err != nil {
		return DayReport{}, err
	}

	totals := ledger.Sum(entries)
	return DayReport{
		Date:          date,
		Entries:       entries,
		Totals:        totals,
		Goal:          goal,
		GoalIsDefault: isDefault,
		Comparison:    ledger.Compare(totals, goal),
	}, nil
}

// Markdown 渲染报告正文
func (s *ReportService) Markdown(report DayReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily report %s\n\n", report.Date)

	if len(report.Entries) == 0 {
		b.WriteString("_No food logged._\n\n")
	} else {
		b.WriteString("| Meal | Food | Amount | kcal | Protein | Carbs | Fat |\n")
		b.WriteString("| --- | --- | --- | ---: | ---: | ---: | ---: |\n")
		for _, entry := range report.Entries {
			fmt.Fprintf(&b, "| %s | %s | %s %s | %s | %s | %s | %s |\n",
				entry.MealType,
				escapeCell(entry.Name),
				formatAmount(entry.Quantity),
				escapeCell(entry.Unit),
				formatAmount(entry.Calories),
				formatAmount(entry.Protein),
				formatAmount(entry.Carbs),
				formatAmount(entry.Fat),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Totals vs goal\n\n")
	if report.GoalIsDefault {
		b.WriteString("_Using the default goal._\n\n")
	}
	b.WriteString("| | Actual | Goal | Progress | Status |\n")
	b.WriteString("| --- | ---: | ---: | ---: | --- |\n")
	rows := []struct {
		label    string
		progress ledger.MacroProgress
	}{
		{"Calories", report.Comparison.Calories},
		{"Protein", report.Comparison.Protein},
		{"Carbs", report.Comparison.Carbs},
		{"Fat", report.Comparison.Fat},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %.0f%% | %s |\n",
			row.label,
			formatAmount(row.progress.Actual),
			formatAmount(row.progress.Goal),
			row.progress.Percent,
			row.progress.Status,
		)
	}

	return b.String()
}

// HTML 将报告转换为经过清洗的 HTML 片段
func (s *ReportService) HTML(report DayReport) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(s.Markdown(report)), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return string(s.policy.SanitizeBytes(buf.Bytes())), nil
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(math.Round(value*10)/10, 'f', -1, 64)
}
