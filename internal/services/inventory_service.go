package services

import (
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pantrypal-backend/internal/apperr"
	"pantrypal-backend/internal/models"
)

// InventoryService is plain user-scoped CRUD over inventory items.
type InventoryService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInventoryService(db *gorm.DB, log *zap.Logger) *InventoryService {
	return &InventoryService{db: db, log: log}
}

type ItemRequest struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Status    string   `json:"status"`
	Frequency string   `json:"frequency"`
	Price     *float64 `json:"price"`
	Note      string   `json:"note"`
	NeedBy    string   `json:"needBy"` // YYYY-MM-DD
}

type ItemFilter struct {
	Status    string
	Category  string
	Frequency string
	Search    string
	SortBy    string
	SortDir   string
	Page      int
	Size      int
}

type PaginatedItems struct {
	Content       []models.InventoryItem `json:"content"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
	TotalElements int64                  `json:"totalElements"`
	TotalPages    int                    `json:"totalPages"`
	Last          bool                   `json:"last"`
}

var sortColumns = []string{"name", "category", "status", "price", "need_by", "created_at", "updated_at"}

func (s *InventoryService) List(userID uint, f ItemFilter) (*PaginatedItems, error) {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 || f.Size > 100 {
		f.Size = 20
	}
	sortBy := f.SortBy
	if !slices.Contains(sortColumns, sortBy) {
		sortBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortDir, "asc") {
		dir = "ASC"
	}

	q := s.db.Model(&models.InventoryItem{}).Where("user_id = ?", userID)
	q, err := applyFilters(q, f)
	if err != nil {
		return nil, err
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	items := []models.InventoryItem{}
	if err := q.Order(sortBy + " " + dir).
		Offset(f.Page * f.Size).
		Limit(f.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(f.Size) - 1) / int64(f.Size))
	return &PaginatedItems{
		Content:       items,
		Page:          f.Page,
		Size:          f.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          f.Page >= totalPages-1,
	}, nil
}

func (s *InventoryService) Get(userID, itemID uint) (*models.InventoryItem, error) {
	return s.getOwned(userID, itemID)
}

func (s *InventoryService) Create(userID uint, req ItemRequest) (*models.InventoryItem, error) {
	item, err := itemFromRequest(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}
	s.log.Info("item created", zap.Uint("user_id", userID), zap.Uint("item_id", item.ID))
	return item, nil
}

func (s *InventoryService) BulkCreate(userID uint, reqs []ItemRequest) ([]models.InventoryItem, error) {
	if len(reqs) == 0 {
		return nil, apperr.Validation("Items are required")
	}
	items := make([]models.InventoryItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := itemFromRequest(userID, req)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := s.db.Create(&items).Error; err != nil {
		return nil, err
	}
	s.log.Info("items bulk created", zap.Uint("user_id", userID), zap.Int("count", len(items)))
	return items, nil
}

func (s *InventoryService) Update(userID, itemID uint, req ItemRequest) (*models.InventoryItem, error) {
	item, err := s.getOwned(userID, itemID)
	if err != nil {
		return nil, err
	}
	fresh, err := itemFromRequest(userID, req)
	if err != nil {
		return nil, err
	}
	item.Name = fresh.Name
	item.Category = fresh.Category
	item.Status = fresh.Status
	item.Frequency = fresh.Frequency
	item.Price = fresh.Price
	item.Note = fresh.Note
	item.NeedBy = fresh.NeedBy
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Patch applies only the fields present in the request.
func (s *InventoryService) Patch(userID, itemID uint, req ItemRequest) (*models.InventoryItem, error) {
	item, err := s.getOwned(userID, itemID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Category != "" {
		if !slices.Contains(models.Categories, req.Category) {
			return nil, apperr.Validation("Invalid category: " + req.Category)
		}
		item.Category = req.Category
	}
	if req.Status != "" {
		if !slices.Contains(models.Statuses, req.Status) {
			return nil, apperr.Validation("Invalid status: " + req.Status)
		}
		item.Status = req.Status
	}
	if req.Frequency != "" {
		if !slices.Contains(models.Frequencies, req.Frequency) {
			return nil, apperr.Validation("Invalid frequency: " + req.Frequency)
		}
		item.Frequency = req.Frequency
	}
	if req.Price != nil {
		item.Price = req.Price
	}
	if req.Note != "" {
		item.Note = req.Note
	}
	if req.NeedBy != "" {
		needBy, err := parseNeedBy(req.NeedBy)
		if err != nil {
			return nil, err
		}
		item.NeedBy = needBy
	}
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) UpdateStatus(userID, itemID uint, status string) (*models.InventoryItem, error) {
	if !slices.Contains(models.Statuses, status) {
		return nil, apperr.Validation("Invalid status: " + status)
	}
	item, err := s.getOwned(userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Status = status
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Delete(userID, itemID uint) error {
	item, err := s.getOwned(userID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return err
	}
	s.log.Info("item deleted", zap.Uint("user_id", userID), zap.Uint("item_id", itemID))
	return nil
}

func (s *InventoryService) BulkDelete(userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.Validation("Item ids are required")
	}
	res := s.db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	s.log.Info("items bulk deleted", zap.Uint("user_id", userID), zap.Int64("count", res.RowsAffected))
	return res.RowsAffected, nil
}

// Ownership doubles as existence: another user's item reads as not found.
func (s *InventoryService) getOwned(userID, itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, apperr.NotFound("Item not found")
	}
	return &item, nil
}

func applyFilters(q *gorm.DB, f ItemFilter) (*gorm.DB, error) {
	if f.Status != "" {
		if !slices.Contains(models.Statuses, f.Status) {
			return nil, apperr.Validation("Invalid status: " + f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		if !slices.Contains(models.Categories, f.Category) {
			return nil, apperr.Validation("Invalid category: " + f.Category)
		}
		q = q.Where("category = ?", f.Category)
	}
	if f.Frequency != "" {
		if !slices.Contains(models.Frequencies, f.Frequency) {
			return nil, apperr.Validation("Invalid frequency: " + f.Frequency)
		}
		q = q.Where("frequency = ?", f.Frequency)
	}
	return q, nil
}

func itemFromRequest(userID uint, req ItemRequest) (*models.InventoryItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("Item name is required")
	}
	if !slices.Contains(models.Categories, req.Category) {
		return nil, apperr.Validation("Invalid category: " + req.Category)
	}
	if !slices.Contains(models.Statuses, req.Status) {
		return nil, apperr.Validation("Invalid status: " + req.Status)
	}
	if !slices.Contains(models.Frequencies, req.Frequency) {
		return nil, apperr.Validation("Invalid frequency: " + req.Frequency)
	}
	needBy, err := parseNeedBy(req.NeedBy)
	if err != nil {
		return nil, err
	}
	return &models.InventoryItem{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Category:  req.Category,
		Status:    req.Status,
		Frequency: req.Frequency,
		Price:     req.Price,
		Note:      req.Note,
		NeedBy:    needBy,
	}, nil
}

func parseNeedBy(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, apperr.Validation("needBy must be YYYY-MM-DD")
	}
	return &t, nil
}
