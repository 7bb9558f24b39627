package services

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pantrypal-backend/internal/models"
)

// StatsService computes per-user aggregates over inventory items.
type StatsService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewStatsService(db *gorm.DB, log *zap.Logger) *StatsService {
	return &StatsService{db: db, log: log, now: time.Now}
}

type StatsSummary struct {
	TotalItems      int64   `json:"totalItems"`
	LowStockItems   int64   `json:"lowStockItems"`
	OutOfStockItems int64   `json:"outOfStockItems"`
	AveragePrice    float64 `json:"averagePrice"`
	TotalSpending   float64 `json:"totalSpending"`
}

type MonthlySpending struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

type GroupBreakdown struct {
	Group         string  `json:"-"`
	Count         int64   `json:"count"`
	TotalSpending float64 `json:"totalSpending"`
}

type CategoryBreakdown struct {
	Category string `json:"category"`
	GroupBreakdown
}

type FrequencyReport struct {
	Frequency string `json:"frequency"`
	GroupBreakdown
}

func (s *StatsService) Summary(userID uint) (*StatsSummary, error) {
	items := s.db.Model(&models.InventoryItem{}).Where("user_id = ?", userID)

	var out StatsSummary
	if err := items.Session(&gorm.Session{}).Count(&out.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := items.Session(&gorm.Session{}).Where("status = ?", models.StatusLow).Count(&out.LowStockItems).Error; err != nil {
		return nil, err
	}
	if err := items.Session(&gorm.Session{}).Where("status = ?", models.StatusOutOfStock).Count(&out.OutOfStockItems).Error; err != nil {
		return nil, err
	}

	var prices struct {
		Avg float64
		Sum float64
	}
	if err := items.Session(&gorm.Session{}).
		Select("COALESCE(AVG(price), 0) AS avg, COALESCE(SUM(price), 0) AS sum").
		Scan(&prices).Error; err != nil {
		return nil, err
	}
	out.AveragePrice = prices.Avg
	out.TotalSpending = prices.Sum
	return &out, nil
}

// MonthlySpending sums item prices by creation month over the trailing
// window. Grouping happens in Go so the query stays portable across the
// sqlite and PostgreSQL dialects.
func (s *StatsService) MonthlySpending(userID uint, months int) ([]MonthlySpending, error) {
	if months <= 0 || months > 60 {
		months = 12
	}
	cutoff := s.now().AddDate(0, -months, 0)

	var rows []models.InventoryItem
	if err := s.db.
		Where("user_id = ? AND created_at >= ? AND price IS NOT NULL", userID, cutoff).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byMonth := map[string]float64{}
	for _, item := range rows {
		byMonth[item.CreatedAt.Format("2006-01")] += *item.Price
	}

	out := make([]MonthlySpending, 0, len(byMonth))
	for month, amount := range byMonth {
		out = append(out, MonthlySpending{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *StatsService) CategoryBreakdown(userID uint) ([]CategoryBreakdown, error) {
	rows, err := s.groupBy(userID, "category")
	if err != nil {
		return nil, err
	}
	out := make([]CategoryBreakdown, len(rows))
	for i, r := range rows {
		out[i] = CategoryBreakdown{Category: r.Group, GroupBreakdown: r}
	}
	return out, nil
}

func (s *StatsService) FrequencyReport(userID uint) ([]FrequencyReport, error) {
	rows, err := s.groupBy(userID, "frequency")
	if err != nil {
		return nil, err
	}
	out := make([]FrequencyReport, len(rows))
	for i, r := range rows {
		out[i] = FrequencyReport{Frequency: r.Group, GroupBreakdown: r}
	}
	return out, nil
}

func (s *StatsService) groupBy(userID uint, column string) ([]GroupBreakdown, error) {
	var rows []struct {
		Grp           string
		Count         int64
		TotalSpending float64
	}
	if err := s.db.Model(&models.InventoryItem{}).
		Select(column+" AS grp, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total_spending").
		Where("user_id = ?", userID).
		Group(column).
		Order(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]GroupBreakdown, len(rows))
	for i, r := range rows {
		out[i] = GroupBreakdown{Group: r.Grp, Count: r.Count, TotalSpending: r.TotalSpending}
	}
	return out, nil
}
