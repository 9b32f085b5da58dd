package entity

import "time"

// HelpfulVotes keeps yes/no feedback counters for a FAQ entry.
type HelpfulVotes struct {
	Yes int `gorm:"not null;default:0" json:"yes"`
	No  int `gorm:"not null;default:0" json:"no"`
}

// CreatedBy identifies the account that authored a record.
type CreatedBy struct {
	ID   string `gorm:"size:50;not null;default:'system'" json:"_id"`
	Name string `gorm:"size:100;not null;default:'System'" json:"name"`
}

// FAQ представляет запись базы знаний
type FAQ struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Question  string       `gorm:"type:text;not null" json:"question"`
	Answer    string       `gorm:"type:text;not null" json:"answer"`
	Category  string       `gorm:"size:50;not null;default:'Gains'" json:"category"`
	Priority  int          `gorm:"not null;default:0;index" json:"priority"`
	Status    string       `gorm:"size:20;not null;default:'published'" json:"status"`
	Views     int          `gorm:"not null;default:0" json:"views"`
	Helpful   HelpfulVotes `gorm:"embedded;embeddedPrefix:helpful_" json:"helpful"`
	CreatedBy CreatedBy    `gorm:"embedded;embeddedPrefix:created_by_" json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (FAQ) TableName() string {
	return "faqs"
}
