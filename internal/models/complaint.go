package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in-progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
)

// ValidStatus reports whether s is one of the four complaint statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Categories is the fixed set of complaint categories.
var Categories = []string{
	"Electricity",
	"Water Supply",
	"Road",
	"Garbage Collection",
	"Public Transport",
	"Healthcare",
	"Education",
	"Others",
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ImageList stores image URLs as a JSON-encoded text column so the same
// model works on both postgres and the sqlite test driver.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("image list: unsupported column type")
	}
}

type Complaint struct {
	ID           uint64          `gorm:"primarykey" json:"id"`
	Title        string          `gorm:"type:varchar(100);not null" json:"title"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Category     string          `gorm:"type:varchar(50);not null" json:"category"`
	Location     string          `gorm:"type:varchar(255);not null" json:"location"`
	Images       ImageList       `gorm:"type:text" json:"images"`
	Status       ComplaintStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority     Priority        `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	UserID       uint64          `gorm:"not null" json:"user_id"`
	AssignedToID *uint64         `json:"assigned_to_id"`
	Votes        int64           `gorm:"not null;default:0" json:"votes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Voters     []Vote    `gorm:"foreignKey:ComplaintID" json:"-"`
	Comments   []Comment `gorm:"foreignKey:ComplaintID" json:"comments,omitempty"`
}
