package models

type HotDeal struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint    `gorm:"not null" json:"productId"`
	Product     Product `gorm:"foreignKey:ProductID" json:"product"`
	CustomTitle string  `json:"customTitle,omitempty"`
}
