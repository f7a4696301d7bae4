package models

import "time"

// Vote is one row in the voter set of a complaint. The composite primary
// key guarantees a user appears at most once per complaint.
type Vote struct {
	ComplaintID uint64    `gorm:"primarykey" json:"complaint_id"`
	UserID      uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Complaint Complaint `gorm:"foreignKey:ComplaintID" json:"complaint,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Vote) TableName() string {
	return "complaint_votes"
}
