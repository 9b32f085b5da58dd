package entity

import "time"

// Доступность подарка
const (
	GiftAvailable  = "available"
	GiftLimited    = "limited"
	GiftOutOfStock = "out-of-stock"
)

// Gift представляет подарок, который можно получить за накопленные баллы
type Gift struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Points        int       `gorm:"not null" json:"points"`
	Category      string    `gorm:"size:50;not null" json:"category"`
	Image         string    `gorm:"size:500;not null" json:"image"`
	Availability  string    `gorm:"size:20;not null;default:'available';index" json:"availability"`
	OriginalPrice float64   `gorm:"not null;default:0" json:"original_price"`
	Discount      int       `gorm:"not null;default:0" json:"discount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Gift) TableName() string {
	return "gifts"
}
