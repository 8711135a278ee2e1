package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"not null" json:"name"`
	Slug            string `gorm:"not null;uniqueIndex:idx_products_category_slug" json:"slug"`
	Description     string `json:"description"`
	LongDescription string `json:"longDescription"`
	Image           string `json:"image"`
	StockOut        bool   `gorm:"default:false" json:"stockOut"`
	CategoryID      uint   `gorm:"not null;uniqueIndex:idx_products_category_slug" json:"categoryId"`
	Category        Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Pricing         []Pricing `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"pricing"`
	Reviews         []Review  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Pricing is one purchasable tier of a product ("1 Month", "1 Year", ...).
// Price is a whole-taka amount in the store's base currency.
type Pricing struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"-"`
	Duration  string `gorm:"not null" json:"duration"`
	Price     int    `gorm:"not null" json:"price"`
	SortOrder int    `gorm:"default:0" json:"-"`
}
