package repository

import "github.com/yourusername/myvoice-api/internal/domain/entity"

// GiftFilter содержит критерии выборки подарков
type GiftFilter struct {
	Category     string // пустая строка или "all" — без фильтра
	Availability string
	Search       string // подстрока в title/description, без учёта регистра
}

// GiftStats — сводная статистика каталога подарков
type GiftStats struct {
	Total      int64           `json:"total"`
	Available  int64           `json:"available"`
	Limited    int64           `json:"limited"`
	OutOfStock int64           `json:"out_of_stock"`
	Categories []CategoryCount `json:"categories"`
}

// CategoryCount — количество записей в категории
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// GiftRepository определяет методы доступа к каталогу подарков
type GiftRepository interface {
	Create(gift *entity.Gift) error
	GetByID(id uint) (*entity.Gift, error)
	List(filter GiftFilter) ([]entity.Gift, error)
	Update(gift *entity.Gift) error
	Delete(id uint) error
	Stats() (*GiftStats, error)
}
