package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteConfig is a singleton row. Exactly one live row is authoritative;
// readers take the first row and reconcile duplicates as a data bug.
type SiteConfig struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	HeroBanners    datatypes.JSON `json:"heroBanners"`
	ContactPhone   string         `json:"contactPhone"`
	ContactEmail   string         `json:"contactEmail"`
	ContactWhatsapp string        `json:"contactWhatsapp"`
	AdminPassword  string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	UsdToBdtRate   float64        `gorm:"default:110" json:"usdToBdtRate"`
	SliderInterval int            `gorm:"default:5000" json:"sliderInterval"` // milliseconds
	UpdatedAt      time.Time      `json:"updatedAt"`
}
