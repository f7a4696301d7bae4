package models

import "time"

type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ComplaintID uint64    `gorm:"not null;index" json:"complaint_id"`
	UserID      uint64    `gorm:"not null" json:"user_id"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "complaint_comments"
}
