package models

import "time"

const (
	CategoryPantry    = "pantry"
	CategoryFridge    = "fridge"
	CategoryFreezer   = "freezer"
	CategoryHousehold = "household"
	CategoryOther     = "other"

	StatusOK         = "ok"
	StatusLow        = "low"
	StatusOutOfStock = "out_of_stock"

	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
	FrequencyRarely   = "rarely"
)

var (
	Categories  = []string{CategoryPantry, CategoryFridge, CategoryFreezer, CategoryHousehold, CategoryOther}
	Statuses    = []string{StatusOK, StatusLow, StatusOutOfStock}
	Frequencies = []string{FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyRarely}
)

type InventoryItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index:idx_item_user;index:idx_item_user_category;index:idx_item_user_status;not null" json:"-"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Category  string     `gorm:"size:20;not null;index:idx_item_user_category" json:"category"`
	Status    string     `gorm:"size:20;not null;index:idx_item_user_status" json:"status"`
	Frequency string     `gorm:"size:20;not null" json:"frequency"`
	Price     *float64   `json:"price,omitempty"`
	Note      string     `gorm:"type:text" json:"note,omitempty"`
	NeedBy    *time.Time `gorm:"type:date;index" json:"needBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
